package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"findata_backend/internal/feature/statements/domain"
	"findata_backend/internal/feature/statements/domain/entity"
	"findata_backend/internal/feature/statements/usecase"
	platformdb "findata_backend/internal/platform/db"
	"findata_backend/internal/shared/ingest"
	"findata_backend/internal/shared/scalar"
)

type statementPostgres struct {
	db *gorm.DB
}

var _ usecase.StatementWriter = (*statementPostgres)(nil)

func NewStatementRepository(db *gorm.DB) *statementPostgres {
	return &statementPostgres{db: db}
}

type StatementModel struct {
	ID            uint      `gorm:"primaryKey"`
	Ticker        string    `gorm:"size:32;not null;uniqueIndex:stmt_identity,priority:1"`
	StatementType string    `gorm:"size:16;not null;uniqueIndex:stmt_identity,priority:2"`
	Period        time.Time `gorm:"not null;uniqueIndex:stmt_identity,priority:3"`
	PeriodType    string    `gorm:"size:16;not null;uniqueIndex:stmt_identity,priority:4"`

	// Data is the canonical line-item document, stored as a plain JSON
	// object of null/number/string values.
	Data []byte `gorm:"not null"`
}

func (StatementModel) TableName() string {
	return "financial_statements"
}

func toModel(e entity.Statement) (StatementModel, error) {
	data, err := json.Marshal(e.Items)
	if err != nil {
		return StatementModel{}, fmt.Errorf("marshal statement items: %w", err)
	}
	return StatementModel{
		Ticker:        e.Ticker,
		StatementType: string(e.Type),
		Period:        e.Period,
		PeriodType:    string(e.PeriodType),
		Data:          data,
	}, nil
}

func toEntity(m StatementModel) (entity.Statement, error) {
	var items map[string]scalar.Scalar
	if err := json.Unmarshal(m.Data, &items); err != nil {
		return entity.Statement{}, fmt.Errorf("unmarshal statement items: %w", err)
	}
	return entity.Statement{
		Ticker:     m.Ticker,
		Type:       entity.Type(m.StatementType),
		Period:     m.Period,
		PeriodType: entity.PeriodType(m.PeriodType),
		Items:      items,
	}, nil
}

// Upsert inserts or updates the statement for its (ticker, type, period,
// period_type) identity via a storage-level conditional upsert, same
// discipline as the bar repository: the prior read only detects unchanged
// documents, the ON CONFLICT clause carries the correctness.
func (r *statementPostgres) Upsert(ctx context.Context, st entity.Statement) (ingest.Outcome, error) {
	m, err := toModel(st)
	if err != nil {
		return 0, err
	}

	var existing StatementModel
	err = r.db.WithContext(ctx).
		Where("ticker = ? AND statement_type = ? AND period = ? AND period_type = ?",
			m.Ticker, m.StatementType, m.Period, m.PeriodType).
		Take(&existing).Error

	outcome := ingest.OutcomeUpdated
	switch {
	case err == nil:
		stored, err := toEntity(existing)
		if err == nil && stored.ItemsEqual(st) {
			return ingest.OutcomeSkipped, nil
		}
		// A corrupt stored document falls through and gets overwritten.
	case errors.Is(err, gorm.ErrRecordNotFound):
		outcome = ingest.OutcomeInserted
	default:
		return 0, err
	}

	if err := r.upsertOnce(ctx, m); err != nil {
		if !platformdb.IsUniqueViolation(err) {
			return 0, err
		}
		if err := r.upsertOnce(ctx, m); err != nil {
			return 0, fmt.Errorf("%w: %s %s %s", ingest.ErrIdentityConflict,
				m.Ticker, m.StatementType, m.Period.Format("2006-01-02"))
		}
		outcome = ingest.OutcomeUpdated
	}
	return outcome, nil
}

func (r *statementPostgres) upsertOnce(ctx context.Context, m StatementModel) error {
	row := m
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ticker"}, {Name: "statement_type"}, {Name: "period"}, {Name: "period_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&row).Error
}

// QueryLatest returns the most recent statement of the given type at or
// before asOf. A zero asOf means the latest available. Returns
// domain.ErrStatementNotFound when the ticker has no such statement stored.
func (r *statementPostgres) QueryLatest(ctx context.Context, ticker string, t entity.Type, asOf time.Time) (entity.Statement, error) {
	q := r.db.WithContext(ctx).
		Where("ticker = ? AND statement_type = ?", ticker, string(t))
	if !asOf.IsZero() {
		q = q.Where("period <= ?", asOf)
	}

	var row StatementModel
	if err := q.Order("period DESC").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Statement{}, domain.ErrStatementNotFound
		}
		return entity.Statement{}, err
	}
	return toEntity(row)
}
