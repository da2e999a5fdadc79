package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrTransferAmount = errors.New("transfer amount must be positive")

// AddTransaction assigns a fresh time-based id unless the caller supplied
// one, defaults the account to cash, and inserts the record. A supplied
// id that collides with an existing row fails with ErrDuplicateKey.
func (s *Store) AddTransaction(t *Transaction) error {
	if t.ID == 0 {
		t.ID = s.nextID()
	}
	if t.Account == "" {
		t.Account = AccountCash
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if err := s.db.Create(t).Error; err != nil {
		return translateErr("add transaction", err)
	}
	return nil
}

// Transactions returns every row, newest first (descending id).
func (s *Store) Transactions() ([]Transaction, error) {
	var txns []Transaction
	if err := s.db.Order("id DESC").Find(&txns).Error; err != nil {
		return nil, storageErr("get transactions", err)
	}
	return txns, nil
}

func (s *Store) TransactionByID(id int64) (*Transaction, error) {
	var t Transaction
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, translateErr("get transaction", err)
	}
	return &t, nil
}

// DeleteTransaction removes the row if present; deleting an absent id is
// a no-op.
func (s *Store) DeleteTransaction(id int64) error {
	if err := s.db.Delete(&Transaction{}, "id = ?", id).Error; err != nil {
		return storageErr("delete transaction", err)
	}
	return nil
}

func (s *Store) TransactionsByKind(kind TransactionKind) ([]Transaction, error) {
	var txns []Transaction
	if err := s.db.Where("type = ?", kind).Order("id DESC").Find(&txns).Error; err != nil {
		return nil, storageErr("get transactions by kind", err)
	}
	return txns, nil
}

func (s *Store) TransactionsByCategory(category string) ([]Transaction, error) {
	var txns []Transaction
	if err := s.db.Where("category = ?", category).Order("id DESC").Find(&txns).Error; err != nil {
		return nil, storageErr("get transactions by category", err)
	}
	return txns, nil
}

type TransferDirection string

const (
	// TransferDeposit moves money cash -> banks.
	TransferDeposit TransferDirection = "deposit"
	// TransferWithdrawal moves money banks -> cash.
	TransferWithdrawal TransferDirection = "withdrawal"
)

// AddTransfer records a movement between the two account buckets as two
// synthetic legs with category Transferencia: an expense on the source
// account and an income on the destination. The legs cancel out in the
// income/expense totals and shift the per-account balances.
func (s *Store) AddTransfer(amount decimal.Decimal, dir TransferDirection, description string, at time.Time) (*Transaction, *Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrTransferAmount
	}
	from, to := AccountCash, AccountBanks
	if dir == TransferWithdrawal {
		from, to = AccountBanks, AccountCash
	}

	out := &Transaction{
		Description: description,
		Amount:      amount,
		Kind:        KindExpense,
		Category:    CategoryTransfer,
		Date:        at,
		Account:     from,
	}
	in := &Transaction{
		Description: description,
		Amount:      amount,
		Kind:        KindIncome,
		Category:    CategoryTransfer,
		Date:        at,
		Account:     to,
	}
	if err := s.AddTransaction(out); err != nil {
		return nil, nil, err
	}
	if err := s.AddTransaction(in); err != nil {
		return nil, nil, err
	}
	s.log.WithFields(map[string]interface{}{
		"amount": amount.String(), "direction": dir,
	}).Info("transfer recorded")
	return out, in, nil
}

// AddAdjustment reconciles the tracked cash balance with reality by
// inserting a single leg with category Ajuste: income when the amount is
// positive, expense when negative.
func (s *Store) AddAdjustment(amount decimal.Decimal, description string, at time.Time) (*Transaction, error) {
	kind := KindIncome
	if amount.IsNegative() {
		kind = KindExpense
	}
	t := &Transaction{
		Description: description,
		Amount:      amount.Abs(),
		Kind:        kind,
		Category:    CategoryAdjustment,
		Date:        at,
		Account:     AccountCash,
	}
	if err := s.AddTransaction(t); err != nil {
		return nil, err
	}
	return t, nil
}
