package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"findata_backend/internal/feature/marketdata/domain"
	"findata_backend/internal/feature/marketdata/domain/entity"
	"findata_backend/internal/feature/marketdata/usecase"
	platformdb "findata_backend/internal/platform/db"
	"findata_backend/internal/shared/ingest"
)

type barPostgres struct {
	db *gorm.DB
}

var _ usecase.BarRepository = (*barPostgres)(nil)
var _ usecase.BarWriter = (*barPostgres)(nil)

func NewBarRepository(db *gorm.DB) *barPostgres {
	return &barPostgres{db: db}
}

type BarModel struct {
	ID     uint      `gorm:"primaryKey"`
	Ticker string    `gorm:"size:32;not null;uniqueIndex:bar_ticker_date,priority:1"`
	Date   time.Time `gorm:"not null;uniqueIndex:bar_ticker_date,priority:2"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (BarModel) TableName() string {
	return "ohlcv_bars"
}

func toModel(e entity.Bar) BarModel {
	return BarModel{
		Ticker: e.Ticker,
		Date:   e.Date,
		Open:   e.Open,
		High:   e.High,
		Low:    e.Low,
		Close:  e.Close,
		Volume: e.Volume,
	}
}

func toEntity(m BarModel) entity.Bar {
	return entity.Bar{
		Ticker: m.Ticker,
		Date:   m.Date,
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  m.Close,
		Volume: m.Volume,
	}
}

// Upsert inserts or updates the bar for its (ticker, date) identity.
//
// The write itself is a storage-level conditional upsert (ON CONFLICT DO
// UPDATE on the unique index), so two concurrent ingestions of the same
// identity converge on one row without a duplicate-key failure. The read
// beforehand only detects value-identical rows so they can be skipped
// without a write; it is never relied on for correctness.
func (r *barPostgres) Upsert(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
	var existing BarModel
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date = ?", bar.Ticker, bar.Date).
		Take(&existing).Error

	outcome := ingest.OutcomeUpdated
	switch {
	case err == nil:
		if toEntity(existing).ValuesEqual(bar) {
			return ingest.OutcomeSkipped, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		outcome = ingest.OutcomeInserted
	default:
		return 0, err
	}

	if err := r.upsertOnce(ctx, bar); err != nil {
		// A violation here means the conflict target did not absorb a
		// concurrent write; retry once before giving up.
		if !platformdb.IsUniqueViolation(err) {
			return 0, err
		}
		if err := r.upsertOnce(ctx, bar); err != nil {
			return 0, fmt.Errorf("%w: %s %s", ingest.ErrIdentityConflict, bar.Ticker, bar.Date.Format("2006-01-02"))
		}
		outcome = ingest.OutcomeUpdated
	}
	return outcome, nil
}

func (r *barPostgres) upsertOnce(ctx context.Context, bar entity.Bar) error {
	m := toModel(bar)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(&m).Error
}

// Find returns stored bars for a ticker, newest first.
func (r *barPostgres) Find(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
	var rows []BarModel
	q := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC")
	if outputsize > 0 {
		q = q.Limit(outputsize)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Bar, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// LatestClose returns the most recent stored close at or before asOf.
// A zero asOf means the latest available. Implements the analysis feature's
// price source.
func (r *barPostgres) LatestClose(ctx context.Context, ticker string, asOf time.Time) (float64, error) {
	q := r.db.WithContext(ctx).Where("ticker = ?", ticker)
	if !asOf.IsZero() {
		q = q.Where("date <= ?", asOf)
	}
	var row BarModel
	if err := q.Order("date DESC").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrNoPriceData
		}
		return 0, err
	}
	return row.Close, nil
}
