// Package report derives display aggregates from full table snapshots.
// Every function here is pure: it takes the rows, returns the numbers,
// and never touches the store.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

// Summary holds the headline totals. Transfer legs (category
// Transferencia) are excluded from income and expenses so a transfer
// nets to zero, but they stay in the per-account balances, which is what
// moves money between the cash and banks buckets.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalSavings  decimal.Decimal
	CashBalance   decimal.Decimal
	BanksBalance  decimal.Decimal
	Balance       decimal.Decimal
}

func Totals(txns []storage.Transaction) Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalSavings:  decimal.Zero,
		CashBalance:   decimal.Zero,
		BanksBalance:  decimal.Zero,
	}
	for _, t := range txns {
		switch t.Kind {
		case storage.KindIncome:
			if t.Category != storage.CategoryTransfer {
				s.TotalIncome = s.TotalIncome.Add(t.Amount)
			}
		case storage.KindExpense:
			if t.Category != storage.CategoryTransfer {
				s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			}
		case storage.KindSavings:
			s.TotalSavings = s.TotalSavings.Add(t.Amount)
		}

		switch t.Account {
		case storage.AccountCash:
			if t.Kind == storage.KindIncome {
				s.CashBalance = s.CashBalance.Add(t.Amount)
			} else if t.Kind == storage.KindExpense {
				s.CashBalance = s.CashBalance.Sub(t.Amount)
			}
		case storage.AccountBanks:
			if t.Kind == storage.KindIncome {
				s.BanksBalance = s.BanksBalance.Add(t.Amount)
			} else if t.Kind == storage.KindExpense {
				s.BanksBalance = s.BanksBalance.Sub(t.Amount)
			}
		}
	}
	s.Balance = s.CashBalance.Add(s.BanksBalance)
	return s
}

// DayGroup is one calendar day's worth of transactions with its totals.
type DayGroup struct {
	Date          time.Time
	Transactions  []storage.Transaction
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalSavings  decimal.Decimal
	NetAmount     decimal.Decimal
}

// GroupByDay buckets transactions by local calendar day, newest day
// first. Per-bucket totals follow the same transfer exclusion as Totals.
func GroupByDay(txns []storage.Transaction) []DayGroup {
	buckets := make(map[time.Time][]storage.Transaction)
	for _, t := range txns {
		day := truncateToDay(t.Date)
		buckets[day] = append(buckets[day], t)
	}

	groups := make([]DayGroup, 0, len(buckets))
	for day, dayTxns := range buckets {
		g := DayGroup{
			Date:          day,
			Transactions:  dayTxns,
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			TotalSavings:  decimal.Zero,
		}
		for _, t := range dayTxns {
			if t.Category == storage.CategoryTransfer {
				continue
			}
			switch t.Kind {
			case storage.KindIncome:
				g.TotalIncome = g.TotalIncome.Add(t.Amount)
			case storage.KindExpense:
				g.TotalExpenses = g.TotalExpenses.Add(t.Amount)
			case storage.KindSavings:
				g.TotalSavings = g.TotalSavings.Add(t.Amount)
			}
		}
		g.NetAmount = g.TotalIncome.Sub(g.TotalExpenses)
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
