package spending

import (
	"github.com/shopspring/decimal"
	"github.com/vorrawut/poon-sub000/internal/domain"
)

// CalculateCategoryBreakdown aggregates debit transactions by category and subcategory
// Logic:
//  1. Keep debits only (credits never count as spending)
//  2. Category percent = category amount / total debit amount x 100
//  3. Subcategory percent = subcategory amount / its category amount x 100
//  4. Both levels sorted by amount desc
//
// When the total debit amount is zero every percent is zero.
func CalculateCategoryBreakdown(transactions []domain.Transaction) []domain.CategorySpending {
	debits := make([]domain.Transaction, 0, len(transactions))
	total := decimal.Zero

	for _, tx := range transactions {
		if tx.Type != domain.EntryTypeDebit {
			continue
		}
		debits = append(debits, tx)
		total = total.Add(tx.Amount)
	}

	return groupByCategory(debits, total, true)
}
