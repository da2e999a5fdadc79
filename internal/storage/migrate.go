package storage

import (
	"time"

	"gorm.io/gorm"
)

type schemaMigration struct {
	Version   int `gorm:"primaryKey"`
	Name      string
	AppliedAt time.Time
}

// migrations is the ordered, additive upgrade path. Each step is
// idempotent; a step never drops an existing table or index. Appending a
// step here is the schema version bump.
var migrations = []struct {
	version int
	name    string
	apply   func(db *gorm.DB) error
}{
	{1, "transactions", func(db *gorm.DB) error {
		return db.AutoMigrate(&Transaction{})
	}},
	{2, "fixed_expenses", func(db *gorm.DB) error {
		return db.AutoMigrate(&FixedExpense{})
	}},
	{3, "patrimony_items", func(db *gorm.DB) error {
		return db.AutoMigrate(&PatrimonyItem{})
	}},
	{4, "patrimony_snapshots", func(db *gorm.DB) error {
		return db.AutoMigrate(&PatrimonySnapshot{})
	}},
	{5, "fixed_expense_payment_date", func(db *gorm.DB) error {
		return db.AutoMigrate(&FixedExpense{})
	}},
}

// SchemaVersion is the version an up-to-date database is at.
const SchemaVersion = 5

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return storageErr("migrate", err)
	}
	for _, m := range migrations {
		var applied int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", m.version).Count(&applied).Error; err != nil {
			return storageErr("migrate", err)
		}
		if applied > 0 {
			continue
		}
		if err := m.apply(db); err != nil {
			return storageErr("migrate "+m.name, err)
		}
		record := schemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return storageErr("migrate", err)
		}
	}
	return nil
}
