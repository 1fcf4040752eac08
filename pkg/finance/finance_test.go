package finance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clashflow/clashflow-shell/pkg/httpclient"
	"github.com/shopspring/decimal"
)

func newTestAPI(t *testing.T, h http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(httpclient.New(httpclient.Options{Production: true, Origin: srv.URL}))
}

func TestAddPostsTransaction(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/finance/add/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["type"] != "expense" || body["amount"] != "12.5" || body["description"] != "lunch" {
			t.Errorf("unexpected body %#v", body)
		}
		if _, ok := body["date"]; ok {
			t.Errorf("empty date must be omitted")
		}
		_, _ = io.WriteString(w, `{"status":"success","id":42}`)
	})

	id, err := api.Add(context.Background(), NewTransaction{
		Type:        "Expense",
		Amount:      decimal.RequireFromString("12.50"),
		Description: "lunch",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
}

func TestAddTrimsType(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["type"] != "income" {
			t.Errorf("expected trimmed type, got %#v", body["type"])
		}
		_, _ = io.WriteString(w, `{"status":"success","id":7}`)
	})

	id, err := api.Add(context.Background(), NewTransaction{
		Type:   " Income ",
		Amount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
}

func TestAddValidatesLocally(t *testing.T) {
	api := newTestAPI(t, func(http.ResponseWriter, *http.Request) {
		t.Errorf("backend must not be called")
	})

	cases := []NewTransaction{
		{Type: "transfer", Amount: decimal.NewFromInt(1)},
		{Type: Income, Amount: decimal.Zero},
		{Type: Income, Amount: decimal.NewFromInt(5), Date: "03/01/2024"},
	}
	for _, tx := range cases {
		if _, err := api.Add(context.Background(), tx); err == nil {
			t.Fatalf("expected validation error for %+v", tx)
		}
	}
	if _, err := api.Add(context.Background(), cases[0]); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestDeleteNotFoundSurfacesStatus(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "income" || body["id"] != float64(7) {
			t.Errorf("unexpected body %#v", body)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":"error","message":"Income not found"}`)
	})

	err := api.Delete(context.Background(), Income, 7)
	if httpclient.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 to reach the caller, got %v", err)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/finance/list/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"transactions":[
			{"id":1,"type":"income","date":"2024-01-05","amount":"100.00","description":"salary","category":null},
			{"id":2,"type":"expense","date":"2024-02-01","amount":12.5,"description":"lunch","category":"food"}
		]}`)
	})

	txs, err := api.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 2 || txs[0].ID != 2 || txs[1].ID != 1 {
		t.Fatalf("unexpected order %+v", txs)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("12.5")) || txs[1].Category != "" {
		t.Fatalf("unexpected decoding %+v", txs)
	}
	if txs[0].Month() != "2024-02" {
		t.Fatalf("unexpected month %q", txs[0].Month())
	}
}

func TestStatsDecodesMixedNumbers(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"month":3,"year":2024,"income":"250.00","expense":0,"balance":"250.00"}`)
	})

	s, err := api.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Month != 3 || s.Year != 2024 || !s.Balance.Equal(decimal.NewFromInt(250)) || !s.Expense.IsZero() {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestExportReturnsWorkbook(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04workbook"))
	})

	data, err := api.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(data[:2]) != "PK" {
		t.Fatalf("unexpected workbook bytes %q", data)
	}
}

func TestParseType(t *testing.T) {
	if typ, err := ParseType(" INCOME "); err != nil || typ != Income {
		t.Fatalf("ParseType = %q, %v", typ, err)
	}
	if _, err := ParseType("loan"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}
