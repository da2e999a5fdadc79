package storage

import (
	"time"
)

// AddFixedExpense assigns a fresh string id and creation timestamp when
// missing, then inserts the record.
func (s *Store) AddFixedExpense(e *FixedExpense) error {
	if e.ID == "" {
		e.ID = s.nextStringID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := s.db.Create(e).Error; err != nil {
		return translateErr("add fixed expense", err)
	}
	return nil
}

// FixedExpenses returns every row, most recently created first.
func (s *Store) FixedExpenses() ([]FixedExpense, error) {
	var expenses []FixedExpense
	if err := s.db.Order("created_at DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, storageErr("get fixed expenses", err)
	}
	return expenses, nil
}

func (s *Store) FixedExpenseByID(id string) (*FixedExpense, error) {
	var e FixedExpense
	if err := s.db.First(&e, "id = ?", id).Error; err != nil {
		return nil, translateErr("get fixed expense", err)
	}
	return &e, nil
}

// UpdateFixedExpense replaces the full record. The target row must exist.
func (s *Store) UpdateFixedExpense(e *FixedExpense) error {
	if _, err := s.FixedExpenseByID(e.ID); err != nil {
		return err
	}
	if err := s.db.Save(e).Error; err != nil {
		return translateErr("update fixed expense", err)
	}
	return nil
}

func (s *Store) DeleteFixedExpense(id string) error {
	if err := s.db.Delete(&FixedExpense{}, "id = ?", id).Error; err != nil {
		return storageErr("delete fixed expense", err)
	}
	return nil
}

// MarkPaid flips the paid flag and stamps the payment date. Calling it on
// an already-paid expense succeeds and overwrites the payment date.
func (s *Store) MarkPaid(id string, at time.Time) error {
	e, err := s.FixedExpenseByID(id)
	if err != nil {
		return err
	}
	e.IsPaid = true
	e.PaymentDate = &at
	if err := s.db.Save(e).Error; err != nil {
		return translateErr("mark paid", err)
	}
	s.log.WithField("id", id).Info("fixed expense marked paid")
	return nil
}

// MarkUnpaid clears the paid flag and the payment date, restoring the
// IsPaid=false implies PaymentDate-absent invariant.
func (s *Store) MarkUnpaid(id string) error {
	e, err := s.FixedExpenseByID(id)
	if err != nil {
		return err
	}
	e.IsPaid = false
	e.PaymentDate = nil
	if err := s.db.Save(e).Error; err != nil {
		return translateErr("mark unpaid", err)
	}
	return nil
}
