package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"findata_backend/internal/feature/marketdata/domain/entity"
	"findata_backend/internal/shared/fieldmap"
	"findata_backend/internal/shared/ingest"
	"findata_backend/internal/shared/ratelimiter"
	"findata_backend/internal/shared/scalar"
)

// DefaultFetchPeriod is the history range requested from the data source
// when the caller does not specify one.
const DefaultFetchPeriod = "1y"

// SourceRepository abstracts the external market data source. It hands back
// raw provider payloads of unknown shape; all typing happens here.
type SourceRepository interface {
	FetchOHLCV(ctx context.Context, ticker, period string) ([]scalar.RawRecord, error)
}

// BarWriter abstracts the idempotent write path for price history.
type BarWriter interface {
	// Upsert atomically inserts or updates the bar for its (ticker, date)
	// identity and reports what the store did.
	Upsert(ctx context.Context, bar entity.Bar) (ingest.Outcome, error)
}

// IngestUsecase pulls raw OHLCV rows from the data source, normalizes them
// and persists them exactly once per (ticker, date) identity.
type IngestUsecase struct {
	source      SourceRepository
	bars        BarWriter
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(source SourceRepository, bars BarWriter, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{source: source, bars: bars, rateLimiter: rateLimiter}
}

// barFields is the alias table for raw OHLCV rows. Prices must be present;
// a missing volume reads as zero rather than failing the row.
var barFields = struct {
	date, open, high, low, clos, volume fieldmap.Field
}{
	date:   fieldmap.Field{Name: "date", Aliases: []string{"Date", "Datetime", "datetime", "timestamp"}, Default: scalar.Null()},
	open:   fieldmap.Field{Name: "open", Aliases: []string{"Open"}, Default: scalar.Null()},
	high:   fieldmap.Field{Name: "high", Aliases: []string{"High"}, Default: scalar.Null()},
	low:    fieldmap.Field{Name: "low", Aliases: []string{"Low"}, Default: scalar.Null()},
	clos:   fieldmap.Field{Name: "close", Aliases: []string{"Close", "Adj Close"}, Default: scalar.Null()},
	volume: fieldmap.Field{Name: "volume", Aliases: []string{"Volume"}, Default: scalar.NewInt(0)},
}

// Ingest normalizes and persists a batch of raw OHLCV rows for a ticker.
//
// A malformed row is recorded as skipped with its reason and the rest of the
// batch still runs. Re-ingesting an identical batch is a no-op: every row
// comes back skipped, with zero inserts and updates.
func (iu *IngestUsecase) Ingest(ctx context.Context, ticker string, rows []scalar.RawRecord) (ingest.Summary, error) {
	ticker = strings.ToUpper(ticker)

	var sum ingest.Summary
	for i, rec := range rows {
		bar, err := normalizeBar(rec)
		if err != nil {
			slog.Warn("skipping malformed ohlcv row", "ticker", ticker, "row", i, "error", err)
			sum.Fail(i, err.Error())
			continue
		}
		bar.Ticker = ticker

		outcome, err := iu.bars.Upsert(ctx, bar)
		if err != nil {
			return sum, fmt.Errorf("upsert bar %s %s: %w", ticker, bar.Date.Format("2006-01-02"), err)
		}
		sum.Record(outcome)
	}
	return sum, nil
}

// FetchAndIngest pulls price history from the data source and ingests it.
// The rate limiter runs before the source call; no store lock is ever held
// across it.
func (iu *IngestUsecase) FetchAndIngest(ctx context.Context, ticker, period string) (ingest.Summary, error) {
	if period == "" {
		period = DefaultFetchPeriod
	}

	iu.rateLimiter.WaitIfNeeded()
	rows, err := iu.source.FetchOHLCV(ctx, ticker, period)
	if err != nil {
		return ingest.Summary{}, fmt.Errorf("fetch ohlcv %s: %w", ticker, err)
	}
	return iu.Ingest(ctx, ticker, rows)
}

// normalizeBar coerces one raw provider row into a Bar. Prices and the date
// are required; their absence fails the row, never the batch.
func normalizeBar(rec scalar.RawRecord) (entity.Bar, error) {
	date, err := resolveDate(rec)
	if err != nil {
		return entity.Bar{}, err
	}

	var bar entity.Bar
	bar.Date = date

	prices := []struct {
		field fieldmap.Field
		dst   *float64
	}{
		{barFields.open, &bar.Open},
		{barFields.high, &bar.High},
		{barFields.low, &bar.Low},
		{barFields.clos, &bar.Close},
	}
	for _, p := range prices {
		v, err := p.field.Resolve(rec)
		if err != nil {
			return entity.Bar{}, err
		}
		f, ok := v.AsFloat()
		if !ok {
			return entity.Bar{}, fmt.Errorf("missing field %s", p.field.Name)
		}
		*p.dst = f
	}

	vol, err := barFields.volume.Resolve(rec)
	if err != nil {
		return entity.Bar{}, err
	}
	bar.Volume = volumeAsInt64(vol)

	return bar, nil
}

func resolveDate(rec scalar.RawRecord) (time.Time, error) {
	v, err := barFields.date.Resolve(rec)
	if err != nil {
		return time.Time{}, err
	}
	switch v.Kind {
	case scalar.KindTime:
		return v.Time, nil
	case scalar.KindText:
		if ts, err := time.Parse("2006-01-02", v.Text); err == nil {
			return ts, nil
		}
		if ts, err := time.Parse(time.RFC3339, v.Text); err == nil {
			return ts, nil
		}
	case scalar.KindInt:
		// Unix seconds, as the chart-style APIs report timestamps.
		return time.Unix(v.Int, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("missing field date")
}

func volumeAsInt64(v scalar.Scalar) int64 {
	switch v.Kind {
	case scalar.KindInt:
		return v.Int
	case scalar.KindFloat:
		return int64(v.Float)
	default:
		return 0
	}
}
