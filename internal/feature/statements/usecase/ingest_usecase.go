// Package usecase implements the business logic for statement ingestion.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"findata_backend/internal/feature/statements/domain"
	"findata_backend/internal/feature/statements/domain/entity"
	"findata_backend/internal/shared/ingest"
	"findata_backend/internal/shared/ratelimiter"
	"findata_backend/internal/shared/scalar"
)

// SourceRepository abstracts the external statement source. Rows come back
// as raw provider payloads, one per reporting period, per statement type.
type SourceRepository interface {
	FetchStatements(ctx context.Context, ticker string, t entity.Type) ([]scalar.RawRecord, error)
}

// StatementWriter abstracts the idempotent write path for statements.
type StatementWriter interface {
	Upsert(ctx context.Context, st entity.Statement) (ingest.Outcome, error)
}

// IngestUsecase normalizes raw statement rows and persists them exactly once
// per (ticker, statement type, period, period type) identity.
type IngestUsecase struct {
	source      SourceRepository
	statements  StatementWriter
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(source SourceRepository, statements StatementWriter, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{source: source, statements: statements, rateLimiter: rateLimiter}
}

// Ingest normalizes and persists a batch of raw statement rows of one type.
// Rows without a recognizable reporting period, or with a value that cannot
// be coerced, are recorded as skipped with their reason; the batch continues.
func (iu *IngestUsecase) Ingest(ctx context.Context, ticker string, t entity.Type, pt entity.PeriodType, rows []scalar.RawRecord) (ingest.Summary, error) {
	if !t.Valid() {
		return ingest.Summary{}, fmt.Errorf("unknown statement type %q", t)
	}

	var sum ingest.Summary
	for i, rec := range rows {
		period, err := domain.PeriodOf(rec)
		if err != nil {
			slog.Warn("skipping statement row without period", "ticker", ticker, "type", t, "row", i, "error", err)
			sum.Fail(i, err.Error())
			continue
		}

		items, err := domain.Normalize(rec, t)
		if err != nil {
			slog.Warn("skipping malformed statement row", "ticker", ticker, "type", t, "row", i, "error", err)
			sum.Fail(i, err.Error())
			continue
		}

		st := entity.Statement{
			Ticker:     strings.ToUpper(ticker),
			Type:       t,
			Period:     period,
			PeriodType: pt,
			Items:      items,
		}
		outcome, err := iu.statements.Upsert(ctx, st)
		if err != nil {
			return sum, fmt.Errorf("upsert statement %s %s %s: %w", st.Ticker, t, period.Format("2006-01-02"), err)
		}
		sum.Record(outcome)
	}
	return sum, nil
}

// FetchAndIngest pulls all statement types for a ticker from the data source
// and ingests each. A source failure for one type is logged and the
// remaining types still run, mirroring the batch policy at row level.
func (iu *IngestUsecase) FetchAndIngest(ctx context.Context, ticker string) (ingest.Summary, error) {
	var total ingest.Summary
	for _, t := range entity.Types {
		iu.rateLimiter.WaitIfNeeded()
		rows, err := iu.source.FetchStatements(ctx, ticker, t)
		if err != nil {
			slog.Error("failed to fetch statements", "ticker", ticker, "type", t, "error", err)
			continue
		}

		sum, err := iu.Ingest(ctx, ticker, t, entity.PeriodAnnual, rows)
		total.Inserted += sum.Inserted
		total.Updated += sum.Updated
		total.Skipped += sum.Skipped
		total.Failures = append(total.Failures, sum.Failures...)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
