package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DatePreset names a rolling filter window
type DatePreset string

const (
	PresetWeek    DatePreset = "week"
	PresetMonth   DatePreset = "month"
	PresetQuarter DatePreset = "quarter"
	PresetYear    DatePreset = "year"
	PresetAll     DatePreset = "all"
)

// DateRange is an inclusive window of calendar days
type DateRange struct {
	From   time.Time  `json:"from"`
	To     time.Time  `json:"to"`
	Preset DatePreset `json:"preset,omitempty"`
}

// Contains reports whether t falls on a day within the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(Day(r.From)) && !day.After(Day(r.To))
}

// FilterState is the active transaction filter. It never mutates transactions.
type FilterState struct {
	DateRange  DateRange `json:"date_range"`
	Accounts   []string  `json:"accounts"`
	Categories []string  `json:"categories"`
	Search     string    `json:"search,omitempty"`
}

// FilterPatch is merged shallowly into a FilterState.
// DateRange is replaced whole when set; a nil slice means "unchanged", an empty one clears the filter.
type FilterPatch struct {
	DateRange  *DateRange `json:"date_range,omitempty"`
	Accounts   []string   `json:"accounts,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Search     *string    `json:"search,omitempty"`
}

// Apply returns a copy of f with the patch merged in
func (p FilterPatch) Apply(f FilterState) FilterState {
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	if p.Accounts != nil {
		f.Accounts = append([]string{}, p.Accounts...)
	}
	if p.Categories != nil {
		f.Categories = append([]string{}, p.Categories...)
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	return f
}

// CategorySpending aggregates spending for one category (or subcategory)
type CategorySpending struct {
	Category         string             `json:"category"`
	Amount           decimal.Decimal    `json:"amount"`
	TransactionCount int                `json:"transaction_count"`
	Percent          decimal.Decimal    `json:"percent"`
	Subcategories    []CategorySpending `json:"subcategories,omitempty"`
}

// SpendingTrend summarises one calendar month of the filtered transactions
type SpendingTrend struct {
	Period     string             `json:"period"` // YYYY-MM
	Income     decimal.Decimal    `json:"income"`
	Expenses   decimal.Decimal    `json:"expenses"`
	Net        decimal.Decimal    `json:"net"`
	Categories []CategorySpending `json:"categories"`
}

// DashboardMetrics is a computed snapshot, regenerated on every account mutation
type DashboardMetrics struct {
	TotalNetWorth         decimal.Decimal `json:"total_net_worth"`
	NetWorthChange        decimal.Decimal `json:"net_worth_change"`
	NetWorthChangePercent decimal.Decimal `json:"net_worth_change_percent"`
	TotalAssets           decimal.Decimal `json:"total_assets"`
	TotalLiabilities      decimal.Decimal `json:"total_liabilities"`
	MonthlyIncome         decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses       decimal.Decimal `json:"monthly_expenses"`
	SavingsRate           decimal.Decimal `json:"savings_rate"`
}

var hundred = decimal.NewFromInt(100)

// Percent returns part / whole x 100, or zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
