// Package domain implements the statement normalizer: the alias table mapping
// provider field naming variants onto canonical line items, and the
// derivation of composite items the ratio catalog needs.
package domain

import (
	"findata_backend/internal/feature/statements/domain/entity"
	"findata_backend/internal/shared/fieldmap"
	"findata_backend/internal/shared/scalar"
)

// Canonical line-item names. Derived items are computed during
// normalization, never resolved from the raw payload directly.
const (
	ItemNetIncome          = "net_income"
	ItemTotalRevenue       = "total_revenue"
	ItemOperatingIncome    = "operating_income"
	ItemInterestExpense    = "interest_expense"
	ItemTaxProvision       = "tax_provision"
	ItemEBIT               = "ebit" // derived
	ItemTotalAssets        = "total_assets"
	ItemTotalLiabilities   = "total_liabilities"
	ItemStockholdersEquity = "stockholders_equity"
	ItemCurrentAssets      = "current_assets"
	ItemCurrentLiabilities = "current_liabilities"
	ItemRetainedEarnings   = "retained_earnings"
	ItemSharesOutstanding  = "shares_outstanding"
	ItemWorkingCapital     = "working_capital" // derived
	ItemOperatingCashFlow  = "operating_cash_flow"
	ItemFreeCashFlow       = "free_cash_flow"
	ItemCapitalExpenditure = "capital_expenditure"
	ItemDividendsPaid      = "dividends_paid"
)

// lineItems is the alias table: one ordered alias list per canonical line
// item, keyed by statement type. This table is the single source of truth
// for provider naming drift; adding a new provider variant means adding an
// alias here and nowhere else.
//
// Defaults are per-field. Everything that feeds a ratio numerator,
// denominator or Altman term defaults to null so a missing value can never
// silently zero a ratio. Only genuinely additive cash-flow items (capex,
// dividends) default to 0, where absence reads as "none reported".
var lineItems = map[entity.Type][]fieldmap.Field{
	entity.TypeIncome: {
		{
			Name:    ItemNetIncome,
			Aliases: []string{"NetIncome", "Net Income", "Net Income Common Stockholders"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemTotalRevenue,
			Aliases: []string{"TotalRevenue", "Total Revenue", "Revenue"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemOperatingIncome,
			Aliases: []string{"EBIT", "Operating Income", "OperatingIncome"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemInterestExpense,
			Aliases: []string{"InterestExpense", "Interest Expense", "Interest Expense Non Operating"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemTaxProvision,
			Aliases: []string{"TaxProvision", "Tax Provision", "Income Tax Expense"},
			Default: scalar.Null(),
		},
	},
	entity.TypeBalance: {
		{
			Name:    ItemTotalAssets,
			Aliases: []string{"TotalAssets", "Total Assets"},
			Default: scalar.Null(),
		},
		{
			Name: ItemTotalLiabilities,
			Aliases: []string{
				"Total Liabilities Net Minority Interest",
				"TotalLiabilitiesNetMinorityInterest",
				"Total Liabilities",
				"TotalLiabilities",
			},
			Default: scalar.Null(),
		},
		{
			Name: ItemStockholdersEquity,
			Aliases: []string{
				"Stockholders Equity",
				"StockholdersEquity",
				"Total Stockholders Equity",
				"Total Equity",
			},
			Default: scalar.Null(),
		},
		{
			Name:    ItemCurrentAssets,
			Aliases: []string{"Current Assets", "CurrentAssets", "Total Current Assets"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemCurrentLiabilities,
			Aliases: []string{"Current Liabilities", "CurrentLiabilities", "Total Current Liabilities"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemRetainedEarnings,
			Aliases: []string{"Retained Earnings", "RetainedEarnings"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemSharesOutstanding,
			Aliases: []string{"Ordinary Shares Number", "OrdinarySharesNumber", "Share Issued", "ShareIssued"},
			Default: scalar.Null(),
		},
	},
	entity.TypeCashflow: {
		{
			Name: ItemOperatingCashFlow,
			Aliases: []string{
				"Operating Cash Flow",
				"OperatingCashFlow",
				"Total Cash From Operating Activities",
				"Cash Flow From Continuing Operating Activities",
			},
			Default: scalar.Null(),
		},
		{
			Name:    ItemFreeCashFlow,
			Aliases: []string{"Free Cash Flow", "FreeCashFlow"},
			Default: scalar.Null(),
		},
		{
			Name:    ItemCapitalExpenditure,
			Aliases: []string{"Capital Expenditure", "CapitalExpenditure"},
			Default: scalar.NewInt(0),
		},
		{
			Name:    ItemDividendsPaid,
			Aliases: []string{"Cash Dividends Paid", "CashDividendsPaid", "Common Stock Dividend Paid"},
			Default: scalar.NewInt(0),
		},
	},
}

// LineItems returns the canonical line items required for a statement type.
func LineItems(t entity.Type) []fieldmap.Field {
	return lineItems[t]
}
