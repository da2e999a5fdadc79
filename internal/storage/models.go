package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindSavings  TransactionKind = "savings"
	KindTransfer TransactionKind = "transfer"
)

type Account string

const (
	AccountCash  Account = "cash"
	AccountBanks Account = "banks"
)

// Categories assigned to synthetic transaction legs. CategoryTransfer is
// excluded from income/expense totals but included in account balances.
const (
	CategoryTransfer   = "Transferencia"
	CategoryAdjustment = "Ajuste"
)

// Transaction is a single ledger entry. Transactions are immutable once
// created; the store exposes only add and delete for them.
type Transaction struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `gorm:"column:type;index" json:"type"`
	Category    string          `gorm:"index" json:"category"`
	Date        time.Time       `gorm:"index" json:"date"`
	Account     Account         `gorm:"column:account_type" json:"accountType"`
}

// FixedExpense is a recurring bill with a computed due date.
// IsPaid=false implies PaymentDate is nil.
type FixedExpense struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `gorm:"index" json:"dueDate"`
	Category    string          `gorm:"index" json:"category"`
	Description string          `json:"description,omitempty"`
	IsPaid      bool            `gorm:"index" json:"isPaid"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type PatrimonyCategory string

const (
	PatrimonyRealEstate PatrimonyCategory = "real-estate"
	PatrimonyVehicle    PatrimonyCategory = "vehicle"
	PatrimonyJewelry    PatrimonyCategory = "jewelry"
	PatrimonyOther      PatrimonyCategory = "other"
)

// PatrimonyItem is a net-worth asset. LastUpdate is bumped on every
// mutation and drives the stale-valuation reminder.
type PatrimonyItem struct {
	ID            string            `gorm:"primaryKey" json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      PatrimonyCategory `gorm:"index" json:"category"`
	PurchaseValue decimal.Decimal   `json:"purchaseValue"`
	CurrentValue  decimal.Decimal   `json:"currentValue"`
	PurchaseDate  time.Time         `json:"purchaseDate"`
	LastUpdate    time.Time         `gorm:"index" json:"lastUpdate"`
	Notes         string            `json:"notes,omitempty"`
}

type SnapshotPeriod string

const (
	PeriodMonthly    SnapshotPeriod = "monthly"
	PeriodQuarterly  SnapshotPeriod = "quarterly"
	PeriodSemiannual SnapshotPeriod = "semiannual"
	PeriodAnnual     SnapshotPeriod = "annual"
)

// PatrimonySnapshot is a periodic aggregate of the patrimony table.
// At most one snapshot per (calendar day, period) is retained; saving a
// second one on the same day overwrites the first.
type PatrimonySnapshot struct {
	ID                 string          `gorm:"primaryKey" json:"id"`
	Date               time.Time       `gorm:"index" json:"date"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	TotalPurchaseValue decimal.Decimal `json:"totalPurchaseValue"`
	TotalVariation     decimal.Decimal `json:"totalVariation"`
	TotalVariationPct  decimal.Decimal `json:"totalVariationPercentage"`
	ItemsCount         int             `json:"itemsCount"`
	Period             SnapshotPeriod  `gorm:"index" json:"period"`
}
