package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	marketusecase "findata_backend/internal/feature/marketdata/usecase"
	"findata_backend/internal/feature/statements/domain/entity"
	stmtusecase "findata_backend/internal/feature/statements/usecase"
	"findata_backend/internal/platform/externalapi/yahoo/dto"
	"findata_backend/internal/shared/scalar"
)

// YahooFinance はYahoo Finance公開APIから株価と財務諸表を取得するデータソース実装です。
type YahooFinance struct {
	cfg    Config
	client *http.Client
}

// YahooFinanceが各フィーチャーのSourceRepositoryを実装していることをコンパイル時に検証します。
var _ marketusecase.SourceRepository = (*YahooFinance)(nil)
var _ stmtusecase.SourceRepository = (*YahooFinance)(nil)

// NewYahooFinance は指定された設定とHTTPクライアントでYahooFinanceの新しいインスタンスを生成します。
func NewYahooFinance(cfg Config, client *http.Client) *YahooFinance {
	return &YahooFinance{cfg: cfg, client: client}
}

// statementMetrics は財務諸表タイプごとに取得する年次メトリクスです。
// プレフィックスを除いた名前がそのまま生レコードのキーになります。
var statementMetrics = map[entity.Type][]string{
	entity.TypeIncome: {
		"annualNetIncome",
		"annualTotalRevenue",
		"annualOperatingIncome",
		"annualInterestExpense",
		"annualTaxProvision",
	},
	entity.TypeBalance: {
		"annualTotalAssets",
		"annualTotalLiabilitiesNetMinorityInterest",
		"annualStockholdersEquity",
		"annualCurrentAssets",
		"annualCurrentLiabilities",
		"annualRetainedEarnings",
		"annualOrdinarySharesNumber",
	},
	entity.TypeCashflow: {
		"annualOperatingCashFlow",
		"annualFreeCashFlow",
		"annualCapitalExpenditure",
		"annualCashDividendsPaid",
	},
}

// FetchOHLCV はチャートAPIから日足の価格履歴を取得し、生レコードとして返します。
// 休場日などの欠損バーはスキップします。
func (y *YahooFinance) FetchOHLCV(ctx context.Context, ticker, period string) ([]scalar.RawRecord, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.cfg.BaseURL, url.PathEscape(ticker), url.QueryEscape(period))

	var body dto.ChartResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart: no data for %s", ticker)
	}

	result := body.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	records := make([]scalar.RawRecord, 0, len(result.Timestamp))
	prices := map[string][]*float64{
		"open":  quote.Open,
		"high":  quote.High,
		"low":   quote.Low,
		"close": quote.Close,
	}
	for i, ts := range result.Timestamp {
		rec := scalar.RawRecord{"timestamp": ts}
		complete := true
		for key, arr := range prices {
			if i >= len(arr) || arr[i] == nil {
				complete = false
				break
			}
			rec[key] = *arr[i]
		}
		// 価格が欠損しているバー（休場日など）は除外
		if !complete {
			continue
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			rec["volume"] = *quote.Volume[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchStatements はファンダメンタルズAPIから年次財務諸表を取得し、
// 会計期間ごとにまとめた生レコードとして返します。
func (y *YahooFinance) FetchStatements(ctx context.Context, ticker string, t entity.Type) ([]scalar.RawRecord, error) {
	metrics, ok := statementMetrics[t]
	if !ok {
		return nil, fmt.Errorf("yahoo fundamentals: unknown statement type %q", t)
	}

	now := time.Now()
	q := url.Values{}
	q.Set("type", strings.Join(metrics, ","))
	q.Set("period1", fmt.Sprintf("%d", now.AddDate(-5, 0, 0).Unix()))
	q.Set("period2", fmt.Sprintf("%d", now.Unix()))
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		y.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	var body dto.TimeseriesResponse
	if err := y.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if body.Timeseries.Error != nil {
		return nil, fmt.Errorf("yahoo fundamentals: %s", body.Timeseries.Error.Description)
	}

	// メトリクス単位のレスポンスを会計期間単位のレコードに組み替える
	byPeriod := map[string]scalar.RawRecord{}
	for _, result := range body.Timeseries.Result {
		if len(result.Meta.Type) == 0 {
			continue
		}
		key := metricKey(result.Meta.Type[0])
		for _, v := range result.Values {
			if v.AsOfDate == "" || v.ReportedValue.Raw == nil {
				continue
			}
			rec, ok := byPeriod[v.AsOfDate]
			if !ok {
				rec = scalar.RawRecord{"asOfDate": v.AsOfDate}
				byPeriod[v.AsOfDate] = rec
			}
			rec[key] = *v.ReportedValue.Raw
		}
	}

	records := make([]scalar.RawRecord, 0, len(byPeriod))
	for _, rec := range byPeriod {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i]["asOfDate"].(string) < records[j]["asOfDate"].(string)
	})
	return records, nil
}

// metricKey はAPIのメトリクス名から期間プレフィックスを取り除きます。
func metricKey(metric string) string {
	for _, prefix := range []string{"annual", "quarterly", "trailing"} {
		if strings.HasPrefix(metric, prefix) {
			return metric[len(prefix):]
		}
	}
	return metric
}

func (y *YahooFinance) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
