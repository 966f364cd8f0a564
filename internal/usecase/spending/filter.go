package spending

import (
	"sort"
	"strings"
	"time"

	"github.com/vorrawut/poon-sub000/internal/domain"
)

var (
	// allTimeFrom and allTimeTo bound the "all" preset
	allTimeFrom = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	allTimeTo   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// PresetRange resolves a named preset into a concrete window around now
// Weeks start on Monday. Unknown presets resolve to the current month.
func PresetRange(preset domain.DatePreset, now time.Time) domain.DateRange {
	today := domain.Day(now)
	y, m, _ := today.Date()

	switch preset {
	case domain.PresetWeek:
		offset := (int(today.Weekday()) + 6) % 7
		from := today.AddDate(0, 0, -offset)
		return domain.DateRange{From: from, To: from.AddDate(0, 0, 6), Preset: preset}
	case domain.PresetQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		from := time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
		return domain.DateRange{From: from, To: from.AddDate(0, 3, -1), Preset: preset}
	case domain.PresetYear:
		return domain.DateRange{
			From:   time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:     time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
			Preset: preset,
		}
	case domain.PresetAll:
		return domain.DateRange{From: allTimeFrom, To: allTimeTo, Preset: preset}
	default:
		from := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return domain.DateRange{From: from, To: from.AddDate(0, 1, -1), Preset: domain.PresetMonth}
	}
}

// DefaultFilters returns the initial filter state: the current calendar month, no other constraint
func DefaultFilters(now time.Time) domain.FilterState {
	return domain.FilterState{
		DateRange:  PresetRange(domain.PresetMonth, now),
		Accounts:   []string{},
		Categories: []string{},
	}
}

// ResolveDateRange fills an empty window from its preset
// A range with explicit bounds is returned unchanged.
func ResolveDateRange(r domain.DateRange, now time.Time) domain.DateRange {
	if r.From.IsZero() && r.To.IsZero() && r.Preset != "" {
		return PresetRange(r.Preset, now)
	}
	return r
}

// ApplyFilters returns the transactions matching the filter, newest first
// Logic: a transaction passes when ALL of these hold:
//   - posted date within [From, To] (calendar days, inclusive)
//   - account filter empty OR account id in the filter
//   - category filter empty OR category in the filter
//   - search empty OR description/merchant/category contains it (case-insensitive)
//
// The input slice is never modified. Ties on date keep their input order.
func ApplyFilters(transactions []domain.Transaction, filters domain.FilterState) []domain.Transaction {
	accounts := toSet(filters.Accounts)
	categories := toSet(filters.Categories)
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	filtered := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !filters.DateRange.Contains(tx.PostedAt) {
			continue
		}
		if len(accounts) > 0 && !accounts[tx.AccountID] {
			continue
		}
		if len(categories) > 0 && !categories[tx.Category] {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}
		filtered = append(filtered, tx)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PostedAt.After(filtered[j].PostedAt)
	})

	return filtered
}

func matchesSearch(tx domain.Transaction, search string) bool {
	return strings.Contains(strings.ToLower(tx.Description), search) ||
		strings.Contains(strings.ToLower(tx.Merchant), search) ||
		strings.Contains(strings.ToLower(tx.Category), search)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
