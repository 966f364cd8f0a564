package spending

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// CalculateSpendingTrends groups transactions by calendar month
// Logic per month (YYYY-MM of the posted date):
//   - Income: Sum of credit amounts
//   - Expenses: Sum of debit amounts
//   - Net: Income - Expenses
//   - Categories: debits grouped by category, percent of that month's expenses, amount desc
//
// The result is sorted by period ascending.
func CalculateSpendingTrends(transactions []domain.Transaction) []domain.SpendingTrend {
	byPeriod := make(map[string]*domain.SpendingTrend)
	debitsByPeriod := make(map[string][]domain.Transaction)
	periods := make([]string, 0)

	for _, tx := range transactions {
		period := tx.Period()
		trend, ok := byPeriod[period]
		if !ok {
			trend = &domain.SpendingTrend{
				Period:   period,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			}
			byPeriod[period] = trend
			periods = append(periods, period)
		}

		switch tx.Type {
		case domain.EntryTypeCredit:
			trend.Income = trend.Income.Add(tx.Amount)
		case domain.EntryTypeDebit:
			trend.Expenses = trend.Expenses.Add(tx.Amount)
			debitsByPeriod[period] = append(debitsByPeriod[period], tx)
		}
	}

	sort.Strings(periods)

	trends := make([]domain.SpendingTrend, 0, len(periods))
	for _, period := range periods {
		trend := byPeriod[period]
		trend.Net = trend.Income.Sub(trend.Expenses)
		trend.Categories = groupByCategory(debitsByPeriod[period], trend.Expenses, false)
		trends = append(trends, *trend)
	}

	return trends
}

// groupByCategory aggregates debits per category, optionally nesting subcategories
// Percent is relative to total; groups are sorted by amount desc, first appearance on ties.
func groupByCategory(debits []domain.Transaction, total decimal.Decimal, withSubcategories bool) []domain.CategorySpending {
	index := make(map[string]int)
	groups := make([]domain.CategorySpending, 0)
	members := make([][]domain.Transaction, 0)

	for _, tx := range debits {
		i, ok := index[tx.Category]
		if !ok {
			i = len(groups)
			index[tx.Category] = i
			groups = append(groups, domain.CategorySpending{Category: tx.Category, Amount: decimal.Zero})
			members = append(members, nil)
		}
		groups[i].Amount = groups[i].Amount.Add(tx.Amount)
		groups[i].TransactionCount++
		members[i] = append(members[i], tx)
	}

	for i := range groups {
		groups[i].Percent = domain.Percent(groups[i].Amount, total)
		if withSubcategories {
			groups[i].Subcategories = groupBySubcategory(members[i], groups[i].Amount)
		}
	}

	sortByAmount(groups)
	return groups
}

// groupBySubcategory aggregates one category's debits per subcategory ("Other" when missing)
func groupBySubcategory(debits []domain.Transaction, total decimal.Decimal) []domain.CategorySpending {
	index := make(map[string]int)
	groups := make([]domain.CategorySpending, 0)

	for _, tx := range debits {
		name := tx.SubcategoryOrDefault()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, domain.CategorySpending{Category: name, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(tx.Amount)
		groups[i].TransactionCount++
	}

	for i := range groups {
		groups[i].Percent = domain.Percent(groups[i].Amount, total)
	}

	sortByAmount(groups)
	return groups
}

func sortByAmount(groups []domain.CategorySpending) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.GreaterThan(groups[j].Amount)
	})
}
