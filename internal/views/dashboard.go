package views

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/clashflow/clashflow-shell/internal/logger"
	"github.com/clashflow/clashflow-shell/internal/router"
)

const recentLimit = 10

// Dashboard shows this month's balance and the latest transactions.
type Dashboard struct {
	api FinanceAPI
	log logger.Logger
}

func NewDashboard(api FinanceAPI, log logger.Logger) *Dashboard {
	return &Dashboard{api: api, log: logger.Ensure(log)}
}

func (d *Dashboard) Name() string { return router.ComponentDashboard }

func (d *Dashboard) Render(ctx context.Context, w io.Writer) error {
	stats, err := d.api.Stats(ctx)
	if err != nil {
		return err
	}
	txs, err := d.api.List(ctx)
	if err != nil {
		return err
	}
	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}
	d.log.DebugObj("dashboard loaded", "dashboard_meta", map[string]any{
		"month":  stats.Month,
		"year":   stats.Year,
		"recent": len(txs),
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Month\t%04d-%02d\n", stats.Year, stats.Month)
	fmt.Fprintf(tw, "Income\t%s\n", stats.Income.StringFixed(2))
	fmt.Fprintf(tw, "Expense\t%s\n", stats.Expense.StringFixed(2))
	fmt.Fprintf(tw, "Balance\t%s\n", stats.Balance.StringFixed(2))
	fmt.Fprintln(tw)

	if len(txs) == 0 {
		fmt.Fprintln(tw, "No transactions yet.")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Type, tx.Amount.StringFixed(2), tx.Description)
	}
	return tw.Flush()
}
