package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleSnapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		GeneratedAt: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Metrics: domain.DashboardMetrics{
			TotalNetWorth:   decimal.RequireFromString("1234.5"),
			TotalAssets:     d(1500),
			MonthlyIncome:   d(1000),
			MonthlyExpenses: d(400),
			SavingsRate:     d(60),
		},
		Accounts: []domain.Account{
			{ID: "acc-1", Name: "Main | Checking", Type: domain.AccountTypeChecking, Provider: domain.ProviderManual, Currency: "USD", CurrentBalance: d(500)},
		},
		SpendingTrends: []domain.SpendingTrend{
			{Period: "2024-01", Income: d(1000), Expenses: d(400), Net: d(600)},
		},
		CategoryBreakdown: []domain.CategorySpending{
			{Category: "Food", Amount: d(400), TransactionCount: 1, Percent: d(100)},
		},
		Positions: []domain.PortfolioPosition{
			{Symbol: "AAPL", Quantity: d(10), CurrentPrice: d(120), MarketValue: d(1200), GainLoss: d(200), GainLossPercent: d(20), WeightPercent: d(100)},
		},
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{name: "Dollars with thousands", amount: decimal.RequireFromString("1234.5"), currency: "USD", want: "$1,234.50"},
		{name: "Rounds to cents", amount: decimal.RequireFromString("0.125"), currency: "USD", want: "$0.13"},
		{name: "Unknown currency", amount: d(7), currency: "XXZ", want: "7.00 XXZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.amount, tt.currency))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "33.3%", FormatPercent(decimal.RequireFromString("33.333")))
	assert.Equal(t, "0.0%", FormatPercent(decimal.Zero))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleSnapshot())

	assert.Contains(t, md, "# Dashboard (2024-01-15)")
	assert.Contains(t, md, "| Net worth | $1,234.50 |")
	assert.Contains(t, md, "| Savings rate | 60.0% |")
	assert.Contains(t, md, `Main \| Checking`)
	assert.Contains(t, md, "| 2024-01 | $1,000.00 | $400.00 | $600.00 |")
	assert.Contains(t, md, "| Food | $400.00 | 100.0% | 1 |")
	assert.Contains(t, md, "| AAPL | 10 | $120.00 | $1,200.00 | $200.00 (20.0%) | 100.0% |")
}

func TestMarkdown_EmptySections(t *testing.T) {
	md := Markdown(dashboard.Snapshot{GeneratedAt: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)})

	assert.Contains(t, md, "_No accounts linked._")
	assert.Contains(t, md, "_No transactions in range._")
	assert.Contains(t, md, "_No spending in range._")
	assert.Contains(t, md, "_No holdings._")
	assert.Contains(t, md, "| Net worth | $0.00 |")
}

func TestMarkdown_CapsCategories(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.CategoryBreakdown = nil
	for i := 0; i < topCategories+3; i++ {
		snapshot.CategoryBreakdown = append(snapshot.CategoryBreakdown, domain.CategorySpending{Category: "Cat" + string(rune('A'+i)), Amount: d(1)})
	}

	md := Markdown(snapshot)
	assert.Contains(t, md, "CatA")
	assert.NotContains(t, md, "Cat"+string(rune('A'+topCategories)))
}

func TestRender(t *testing.T) {
	out, err := Render(sampleSnapshot(), "notty")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "AAPL"))
	assert.True(t, strings.Contains(out, "Dashboard"))
}
