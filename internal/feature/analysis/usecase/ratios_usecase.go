// Package usecase implements the financial ratio engine.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"findata_backend/internal/feature/analysis/domain"
	"findata_backend/internal/feature/analysis/domain/entity"
	marketdomain "findata_backend/internal/feature/marketdata/domain"
	stmtdomain "findata_backend/internal/feature/statements/domain"
	stmtentity "findata_backend/internal/feature/statements/domain/entity"
)

// StatementReader abstracts read access to stored statements.
type StatementReader interface {
	// QueryLatest returns the most recent statement of the given type at or
	// before asOf (zero asOf: latest available), or ErrStatementNotFound.
	QueryLatest(ctx context.Context, ticker string, t stmtentity.Type, asOf time.Time) (stmtentity.Statement, error)
}

// PriceReader abstracts read access to stored price history.
type PriceReader interface {
	// LatestClose returns the most recent stored close at or before asOf,
	// or ErrNoPriceData.
	LatestClose(ctx context.Context, ticker string, asOf time.Time) (float64, error)
}

// MarketInput optionally overrides the market-side ratio inputs. Nil fields
// fall back to stored data: price to the latest close, shares outstanding to
// the balance sheet.
type MarketInput struct {
	Price             *float64
	SharesOutstanding *float64
}

// RatiosUsecase computes the ratio catalog from the latest stored
// statements. Every ratio is computed independently: a missing input marks
// only the ratios that need it as unavailable.
type RatiosUsecase struct {
	statements StatementReader
	prices     PriceReader
}

// NewRatiosUsecase creates a new RatiosUsecase.
func NewRatiosUsecase(statements StatementReader, prices PriceReader) *RatiosUsecase {
	return &RatiosUsecase{statements: statements, prices: prices}
}

// Altman Z-Score weights (Altman 1968).
const (
	altmanWeightA = 1.2
	altmanWeightB = 1.4
	altmanWeightC = 3.3
	altmanWeightD = 0.6
	altmanWeightE = 1.0
)

// ComputeRatios computes the ratio catalog for a ticker as of the given
// date (zero asOf: latest available data).
//
// It fails with ErrNoStatements only when the ticker has no stored statement
// of any type; individual missing line items degrade per-ratio instead.
func (ru *RatiosUsecase) ComputeRatios(ctx context.Context, ticker string, asOf time.Time, market MarketInput) (entity.RatioResult, error) {
	ticker = strings.ToUpper(ticker)

	balance, err := ru.loadStatement(ctx, ticker, stmtentity.TypeBalance, asOf)
	if err != nil {
		return entity.RatioResult{}, err
	}
	income, err := ru.loadStatement(ctx, ticker, stmtentity.TypeIncome, asOf)
	if err != nil {
		return entity.RatioResult{}, err
	}
	if balance == nil && income == nil {
		return entity.RatioResult{}, fmt.Errorf("%w: %s", domain.ErrNoStatements, ticker)
	}

	price := ru.resolvePrice(ctx, ticker, asOf, market)
	shares := resolveShares(balance, market)

	netIncome := item(income, stmtdomain.ItemNetIncome)
	equity := item(balance, stmtdomain.ItemStockholdersEquity)

	ratios := map[string]entity.Ratio{
		entity.RatioPE:           peRatio(price, netIncome, shares),
		entity.RatioPB:           pbRatio(price, equity, shares),
		entity.RatioROEPercent:   roePercent(netIncome, equity),
		entity.RatioAltmanZScore: altmanZ(balance, income, price, shares),
	}

	return entity.RatioResult{Ticker: ticker, Ratios: ratios}, nil
}

// loadStatement returns nil (without error) when the statement type has no
// stored record, so a ticker with only one statement type still computes
// whatever its data supports.
func (ru *RatiosUsecase) loadStatement(ctx context.Context, ticker string, t stmtentity.Type, asOf time.Time) (*stmtentity.Statement, error) {
	st, err := ru.statements.QueryLatest(ctx, ticker, t, asOf)
	if err != nil {
		if errors.Is(err, stmtdomain.ErrStatementNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// operand is an intermediate ratio input: a value, or the reason it is
// unavailable. Arithmetic on operands propagates the first reason.
type operand struct {
	val    float64
	ok     bool
	reason string
}

func available(v float64) operand { return operand{val: v, ok: true} }

func missing(field string) operand {
	return operand{reason: entity.ReasonMissingField + ": " + field}
}

func (ru *RatiosUsecase) resolvePrice(ctx context.Context, ticker string, asOf time.Time, market MarketInput) operand {
	if market.Price != nil {
		return available(*market.Price)
	}
	px, err := ru.prices.LatestClose(ctx, ticker, asOf)
	if err != nil {
		if errors.Is(err, marketdomain.ErrNoPriceData) {
			return operand{reason: entity.ReasonNoPriceData}
		}
		// A store failure degrades the price-dependent ratios rather than
		// failing the whole catalog.
		return operand{reason: entity.ReasonNoPriceData}
	}
	return available(px)
}

func resolveShares(balance *stmtentity.Statement, market MarketInput) operand {
	if market.SharesOutstanding != nil {
		return available(*market.SharesOutstanding)
	}
	return item(balance, stmtdomain.ItemSharesOutstanding)
}

// item reads a line item from a possibly absent statement as an operand.
func item(st *stmtentity.Statement, name string) operand {
	if st == nil {
		return missing(name)
	}
	f, ok := st.Item(name).AsFloat()
	if !ok {
		return missing(name)
	}
	return available(f)
}

// div divides two operands, guarding the denominator. denName labels the
// zero-denominator reason.
func div(num, den operand, denName string) operand {
	if !num.ok {
		return num
	}
	if !den.ok {
		return den
	}
	if den.val == 0 {
		return operand{reason: entity.ReasonZeroDenominator + ": " + denName}
	}
	return available(num.val / den.val)
}

func mul(a, b operand) operand {
	if !a.ok {
		return a
	}
	if !b.ok {
		return b
	}
	return available(a.val * b.val)
}

func toRatio(op operand) entity.Ratio {
	if !op.ok {
		return entity.Unavailable(op.reason)
	}
	return entity.Available(op.val)
}

// peRatio = price / (net_income / shares_outstanding)
func peRatio(price, netIncome, shares operand) entity.Ratio {
	eps := div(netIncome, shares, stmtdomain.ItemSharesOutstanding)
	return toRatio(div(price, eps, "earnings_per_share"))
}

// pbRatio = price / (stockholders_equity / shares_outstanding)
func pbRatio(price, equity, shares operand) entity.Ratio {
	bps := div(equity, shares, stmtdomain.ItemSharesOutstanding)
	return toRatio(div(price, bps, "book_value_per_share"))
}

// roePercent = 100 * net_income / stockholders_equity
func roePercent(netIncome, equity operand) entity.Ratio {
	roe := div(netIncome, equity, stmtdomain.ItemStockholdersEquity)
	if !roe.ok {
		return toRatio(roe)
	}
	return toRatio(available(100 * roe.val))
}

// altmanZ = 1.2*A + 1.4*B + 3.3*C + 0.6*D + 1.0*E. Every term is
// null-propagating: a single missing input marks the whole score unavailable
// instead of silently dropping the term as zero, which would bias the score.
func altmanZ(balance, income *stmtentity.Statement, price, shares operand) entity.Ratio {
	totalAssets := item(balance, stmtdomain.ItemTotalAssets)

	a := div(item(balance, stmtdomain.ItemWorkingCapital), totalAssets, stmtdomain.ItemTotalAssets)
	b := div(item(balance, stmtdomain.ItemRetainedEarnings), totalAssets, stmtdomain.ItemTotalAssets)
	c := div(item(income, stmtdomain.ItemEBIT), totalAssets, stmtdomain.ItemTotalAssets)
	marketEquity := mul(price, shares)
	d := div(marketEquity, item(balance, stmtdomain.ItemTotalLiabilities), stmtdomain.ItemTotalLiabilities)
	e := div(item(income, stmtdomain.ItemTotalRevenue), totalAssets, stmtdomain.ItemTotalAssets)

	for _, term := range []operand{a, b, c, d, e} {
		if !term.ok {
			return entity.Unavailable(term.reason)
		}
	}

	z := altmanWeightA*a.val +
		altmanWeightB*b.val +
		altmanWeightC*c.val +
		altmanWeightD*d.val +
		altmanWeightE*e.val
	return entity.Available(z)
}
