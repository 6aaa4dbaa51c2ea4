package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"findata_backend/internal/feature/statements/domain/entity"
)

func TestNewYahooFinance(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:   "https://query1.test.com",
		UserAgent: "test-agent",
		Timeout:   10 * time.Second,
	}
	client := &http.Client{}

	source := NewYahooFinance(cfg, client)

	if source == nil {
		t.Fatal("expected non-nil source")
	}
	if source.cfg.BaseURL != cfg.BaseURL {
		t.Errorf("expected base URL %q, got %q", cfg.BaseURL, source.cfg.BaseURL)
	}
}

func TestYahooFinance_FetchOHLCV_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "1y" {
			t.Errorf("expected range 1y, got %s", r.URL.Query().Get("range"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1704153600, 1704240000, 1704326400],
					"indicators": {
						"quote": [{
							"open":   [185.5, null, 186.2],
							"high":   [186.7, null, 188.1],
							"low":    [184.2, null, 185.7],
							"close":  [185.6, null, 187.9],
							"volume": [48000000, null, null]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	records, err := source.FetchOHLCV(context.Background(), "AAPL", "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The null bar (holiday) must be dropped.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first["timestamp"] != int64(1704153600) {
		t.Errorf("expected timestamp 1704153600, got %v", first["timestamp"])
	}
	if first["open"] != 185.5 {
		t.Errorf("expected open 185.5, got %v", first["open"])
	}
	if first["volume"] != int64(48000000) {
		t.Errorf("expected volume 48000000, got %v", first["volume"])
	}

	// Missing volume stays absent from the record, not zero.
	if _, ok := records[1]["volume"]; ok {
		t.Errorf("expected no volume key on the second record, got %v", records[1]["volume"])
	}
}

func TestYahooFinance_FetchOHLCV_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`))
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	_, err := source.FetchOHLCV(context.Background(), "NOSUCH", "1y")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "delisted") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestYahooFinance_FetchOHLCV_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"too many requests", http.StatusTooManyRequests},
		{"not found", http.StatusNotFound},
		{"internal server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

			_, err := source.FetchOHLCV(context.Background(), "AAPL", "1y")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "yahoo http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}
		})
	}
}

func TestYahooFinance_FetchOHLCV_NoData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"chart": {"result": [], "error": null}}`))
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	_, err := source.FetchOHLCV(context.Background(), "AAPL", "1y")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Errorf("expected no-data error, got %v", err)
	}
}

func TestYahooFinance_FetchStatements_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/timeseries/AAPL") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		types := r.URL.Query().Get("type")
		if !strings.Contains(types, "annualNetIncome") {
			t.Errorf("expected annualNetIncome in type param, got %s", types)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"timeseries": {
				"result": [
					{
						"meta": {"symbol": ["AAPL"], "type": ["annualNetIncome"]},
						"timestamp": [1663977600, 1696032000],
						"annualNetIncome": [
							{"asOfDate": "2022-09-24", "periodType": "12M", "reportedValue": {"raw": 99803000000, "fmt": "99.8B"}},
							{"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": {"raw": 96995000000, "fmt": "97B"}}
						]
					},
					{
						"meta": {"symbol": ["AAPL"], "type": ["annualTotalRevenue"]},
						"timestamp": [1696032000],
						"annualTotalRevenue": [
							{"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": {"raw": 383285000000, "fmt": "383.3B"}}
						]
					},
					{
						"meta": {"symbol": ["AAPL"], "type": ["annualTaxProvision"]},
						"timestamp": [1696032000],
						"annualTaxProvision": [
							{"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": null}
						]
					}
				],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	records, err := source.FetchStatements(context.Background(), "AAPL", entity.TypeIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 period records, got %d", len(records))
	}

	// Records are sorted by period, oldest first.
	if records[0]["asOfDate"] != "2022-09-24" {
		t.Errorf("expected first period 2022-09-24, got %v", records[0]["asOfDate"])
	}

	latest := records[1]
	if latest["NetIncome"] != 96995000000.0 {
		t.Errorf("expected NetIncome 96995000000, got %v", latest["NetIncome"])
	}
	if latest["TotalRevenue"] != 383285000000.0 {
		t.Errorf("expected TotalRevenue 383285000000, got %v", latest["TotalRevenue"])
	}

	// A null reportedValue must not appear in the record at all.
	if _, ok := latest["TaxProvision"]; ok {
		t.Errorf("expected no TaxProvision key, got %v", latest["TaxProvision"])
	}
}

func TestYahooFinance_FetchStatements_UnknownType(t *testing.T) {
	t.Parallel()

	source := NewYahooFinance(Config{BaseURL: "http://unused", UserAgent: "test"}, &http.Client{})

	_, err := source.FetchStatements(context.Background(), "AAPL", entity.Type("ledger"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown statement type") {
		t.Errorf("expected unknown type error, got %v", err)
	}
}

func TestYahooFinance_FetchStatements_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"timeseries": {
				"result": null,
				"error": {"code": "Bad Request", "description": "Invalid ticker"}
			}
		}`))
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	_, err := source.FetchStatements(context.Background(), "???", entity.TypeIncome)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid ticker") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestYahooFinance_FetchStatements_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := NewYahooFinance(Config{BaseURL: server.URL, UserAgent: "test"}, server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := source.FetchStatements(ctx, "AAPL", entity.TypeIncome)
	if err == nil {
		t.Fatal("expected error due to context cancellation, got nil")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg := LoadConfig()

	if cfg.BaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}
}
