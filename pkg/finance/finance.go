package finance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/clashflow/clashflow-shell/pkg/httpclient"
	"github.com/shopspring/decimal"
)

// Type distinguishes income from expense entries.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"

	DateLayout = "2006-01-02"
)

// ErrInvalidType is returned for anything other than income or expense.
var ErrInvalidType = errors.New("invalid transaction type")

// ParseType validates s as a transaction type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidType, s)
	}
}

// Transaction is one income or expense entry as listed by the backend.
type Transaction struct {
	ID          int64           `json:"id"`
	Type        Type            `json:"type"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// Month returns the YYYY-MM part of the date.
func (t Transaction) Month() string {
	if len(t.Date) >= 7 {
		return t.Date[:7]
	}
	return t.Date
}

// NewTransaction is the payload for Add. An empty Date lets the backend use today.
type NewTransaction struct {
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
}

func (n NewTransaction) validate() error {
	if _, err := ParseType(string(n.Type)); err != nil {
		return err
	}
	if !n.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", n.Amount)
	}
	if n.Date != "" {
		if _, err := time.Parse(DateLayout, n.Date); err != nil {
			return fmt.Errorf("invalid date %q (expected %s)", n.Date, DateLayout)
		}
	}
	return nil
}

// Stats holds the current-month totals.
type Stats struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type statusReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type listReply struct {
	Transactions []Transaction `json:"transactions"`
}

// API exposes the finance endpoints over the shared client.
type API struct {
	client httpclient.Doer
}

// New wraps client.
func New(client httpclient.Doer) *API {
	return &API{client: client}
}

// Add records a transaction and returns its id.
func (a *API) Add(ctx context.Context, tx NewTransaction) (int64, error) {
	t, err := ParseType(string(tx.Type))
	if err != nil {
		return 0, err
	}
	tx.Type = t
	if err := tx.validate(); err != nil {
		return 0, err
	}

	var reply statusReply
	if err := a.call(ctx, http.MethodPost, "/add/", tx, &reply); err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	if reply.Status != "success" {
		return 0, fmt.Errorf("add transaction: %s", reply.Message)
	}
	return reply.ID, nil
}

// Delete removes the transaction of the given type and id.
func (a *API) Delete(ctx context.Context, typ Type, id int64) error {
	t, err := ParseType(string(typ))
	if err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("invalid transaction id %d", id)
	}

	var reply statusReply
	body := map[string]any{"id": id, "type": t}
	if err := a.call(ctx, http.MethodPost, "/delete/", body, &reply); err != nil {
		return fmt.Errorf("delete %s %d: %w", t, id, err)
	}
	if reply.Status != "success" {
		return fmt.Errorf("delete %s %d: %s", t, id, reply.Message)
	}
	return nil
}

// List returns all transactions, newest first.
func (a *API) List(ctx context.Context) ([]Transaction, error) {
	var reply listReply
	if err := a.call(ctx, http.MethodGet, "/list/", nil, &reply); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	slices.SortStableFunc(reply.Transactions, func(x, y Transaction) int {
		return strings.Compare(y.Date, x.Date)
	})
	return reply.Transactions, nil
}

// Stats returns the current-month totals.
func (a *API) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := a.call(ctx, http.MethodGet, "/stats/", nil, &s); err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return s, nil
}

// Export downloads the transactions workbook (xlsx).
func (a *API) Export(ctx context.Context) ([]byte, error) {
	resp, err := a.client.Do(ctx, &httpclient.Request{Method: http.MethodGet, URL: "/export/"})
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if len(resp.Body) == 0 {
		return nil, errors.New("export transactions: empty workbook")
	}
	return resp.Body, nil
}

func (a *API) call(ctx context.Context, method, url string, body, out any) error {
	if a == nil || a.client == nil {
		return errors.New("finance api is not initialized")
	}
	resp, err := a.client.Do(ctx, &httpclient.Request{Method: method, URL: url, Body: body})
	if err != nil {
		return err
	}
	return resp.JSON(out)
}
