package views

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/clashflow/clashflow-shell/internal/logger"
	"github.com/clashflow/clashflow-shell/internal/router"
	"github.com/clashflow/clashflow-shell/pkg/finance"
	"github.com/shopspring/decimal"
)

const uncategorized = "uncategorized"

// Analysis breaks all transactions down by category and by month.
type Analysis struct {
	api FinanceAPI
	log logger.Logger
}

func NewAnalysis(api FinanceAPI, log logger.Logger) *Analysis {
	return &Analysis{api: api, log: logger.Ensure(log)}
}

func (a *Analysis) Name() string { return router.ComponentAnalysis }

// CategoryTotal is the sum for one (type, category) pair.
type CategoryTotal struct {
	Type     finance.Type
	Category string
	Total    decimal.Decimal
}

// MonthTotal is the income, expense and net of one month.
type MonthTotal struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (m MonthTotal) Net() decimal.Decimal { return m.Income.Sub(m.Expense) }

// Summarize groups txs by category and month. Categories are ordered by type
// then descending total, months newest first.
func Summarize(txs []finance.Transaction) ([]CategoryTotal, []MonthTotal) {
	type catKey struct {
		typ finance.Type
		cat string
	}
	cats := map[catKey]decimal.Decimal{}
	months := map[string]*MonthTotal{}

	for _, tx := range txs {
		cat := tx.Category
		if cat == "" {
			cat = uncategorized
		}
		k := catKey{typ: tx.Type, cat: cat}
		cats[k] = cats[k].Add(tx.Amount)

		m, ok := months[tx.Month()]
		if !ok {
			m = &MonthTotal{Month: tx.Month()}
			months[tx.Month()] = m
		}
		switch tx.Type {
		case finance.Income:
			m.Income = m.Income.Add(tx.Amount)
		case finance.Expense:
			m.Expense = m.Expense.Add(tx.Amount)
		}
	}

	catOut := make([]CategoryTotal, 0, len(cats))
	for k, total := range cats {
		catOut = append(catOut, CategoryTotal{Type: k.typ, Category: k.cat, Total: total})
	}
	sort.Slice(catOut, func(i, j int) bool {
		if catOut[i].Type != catOut[j].Type {
			return catOut[i].Type > catOut[j].Type
		}
		if c := catOut[i].Total.Cmp(catOut[j].Total); c != 0 {
			return c > 0
		}
		return catOut[i].Category < catOut[j].Category
	})

	monthOut := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		monthOut = append(monthOut, *m)
	}
	sort.Slice(monthOut, func(i, j int) bool { return monthOut[i].Month > monthOut[j].Month })

	return catOut, monthOut
}

func (a *Analysis) Render(ctx context.Context, w io.Writer) error {
	txs, err := a.api.List(ctx)
	if err != nil {
		return err
	}
	cats, months := Summarize(txs)
	a.log.DebugObj("analysis loaded", "analysis_meta", map[string]any{
		"transactions": len(txs),
		"categories":   len(cats),
		"months":       len(months),
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(txs) == 0 {
		fmt.Fprintln(tw, "No transactions to analyse.")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "TYPE\tCATEGORY\tTOTAL")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Type, c.Category, c.Total.StringFixed(2))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tNET")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Net().StringFixed(2))
	}
	return tw.Flush()
}
