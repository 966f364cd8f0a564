// Package report renders a dashboard snapshot as Markdown for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/vorrawut/poon-sub000/internal/domain"
	"github.com/vorrawut/poon-sub000/internal/usecase/dashboard"
)

// DefaultStyle is the glamour style used when none is given
const DefaultStyle = "dark"

// DefaultCurrency is used to format amounts when the snapshot carries no accounts
const DefaultCurrency = "USD"

// topCategories caps the category table
const topCategories = 8

// FormatMoney formats amount in currency using its symbol and minor units.
// Unknown currency codes fall back to "<amount> <code>".
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

// FormatPercent formats p with one decimal place
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// Markdown builds the dashboard document
// Sections: summary metrics, accounts, monthly cashflow, top categories, positions.
// Empty sections are rendered with a placeholder line so the layout stays stable.
func Markdown(snapshot dashboard.Snapshot) string {
	currency := reportCurrency(snapshot.Accounts)
	m := snapshot.Metrics

	var b strings.Builder
	fmt.Fprintf(&b, "# Dashboard (%s)\n\n", snapshot.GeneratedAt.Format("2006-01-02"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Net worth | %s |\n", FormatMoney(m.TotalNetWorth, currency))
	fmt.Fprintf(&b, "| Change this month | %s (%s) |\n", FormatMoney(m.NetWorthChange, currency), FormatPercent(m.NetWorthChangePercent))
	fmt.Fprintf(&b, "| Assets | %s |\n", FormatMoney(m.TotalAssets, currency))
	fmt.Fprintf(&b, "| Liabilities | %s |\n", FormatMoney(m.TotalLiabilities, currency))
	fmt.Fprintf(&b, "| Income | %s |\n", FormatMoney(m.MonthlyIncome, currency))
	fmt.Fprintf(&b, "| Expenses | %s |\n", FormatMoney(m.MonthlyExpenses, currency))
	fmt.Fprintf(&b, "| Savings rate | %s |\n\n", FormatPercent(m.SavingsRate))

	b.WriteString("## Accounts\n\n")
	if len(snapshot.Accounts) == 0 {
		b.WriteString("_No accounts linked._\n\n")
	} else {
		b.WriteString("| Account | Type | Provider | Balance |\n|---|---|---|---:|\n")
		for _, a := range snapshot.Accounts {
			name := a.Name
			if name == "" {
				name = a.ID
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", escape(name), a.Type, a.Provider, FormatMoney(a.CurrentBalance, accountCurrency(a, currency)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Cashflow\n\n")
	if len(snapshot.SpendingTrends) == 0 {
		b.WriteString("_No transactions in range._\n\n")
	} else {
		b.WriteString("| Month | Income | Expenses | Net |\n|---|---:|---:|---:|\n")
		for _, t := range snapshot.SpendingTrends {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", t.Period,
				FormatMoney(t.Income, currency), FormatMoney(t.Expenses, currency), FormatMoney(t.Net, currency))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top Categories\n\n")
	if len(snapshot.CategoryBreakdown) == 0 {
		b.WriteString("_No spending in range._\n\n")
	} else {
		b.WriteString("| Category | Spent | Share | Count |\n|---|---:|---:|---:|\n")
		for i, c := range snapshot.CategoryBreakdown {
			if i == topCategories {
				break
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", escape(c.Category), FormatMoney(c.Amount, currency), FormatPercent(c.Percent), c.TransactionCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Positions\n\n")
	if len(snapshot.Positions) == 0 {
		b.WriteString("_No holdings._\n")
	} else {
		b.WriteString("| Symbol | Quantity | Price | Value | Gain/Loss | Weight |\n|---|---:|---:|---:|---:|---:|\n")
		for _, p := range snapshot.Positions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s (%s) | %s |\n", p.Symbol, p.Quantity.String(),
				FormatMoney(p.CurrentPrice, currency), FormatMoney(p.MarketValue, currency),
				FormatMoney(p.GainLoss, currency), FormatPercent(p.GainLossPercent), FormatPercent(p.WeightPercent))
		}
	}

	return b.String()
}

// Render turns the dashboard Markdown into styled terminal output
func Render(snapshot dashboard.Snapshot, style string) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	out, err := glamour.Render(Markdown(snapshot), style)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

// reportCurrency picks the currency of the first account, or DefaultCurrency
func reportCurrency(accounts []domain.Account) string {
	for _, a := range accounts {
		if a.Currency != "" {
			return a.Currency
		}
	}
	return DefaultCurrency
}

func accountCurrency(a domain.Account, fallback string) string {
	if a.Currency == "" {
		return fallback
	}
	return a.Currency
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
