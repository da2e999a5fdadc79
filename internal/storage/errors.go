package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate primary key")
)

// storageErr wraps an engine-level failure so callers can still reach the
// underlying gorm/sqlite error with errors.Is/As.
func storageErr(op string, err error) error {
	return fmt.Errorf("storage: %s: %w", op, err)
}

func translateErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("storage: %s: %w", op, ErrDuplicateKey)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("storage: %s: %w", op, ErrNotFound)
	}
	return storageErr(op, err)
}
