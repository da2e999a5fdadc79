package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewSnapshotID builds a time-based id with a random suffix; snapshots
// are created in bulk during import, where a bare timestamp collides.
func (s *Store) NewSnapshotID() string {
	return fmt.Sprintf("%d-%s", s.nextID(), uuid.NewString()[:8])
}

// SaveSnapshot aggregates the patrimony table into a snapshot for the
// given period. If a snapshot for the same period already exists on the
// same calendar day it is overwritten in place instead of appended.
func (s *Store) SaveSnapshot(period SnapshotPeriod, now time.Time) (*PatrimonySnapshot, error) {
	items, err := s.PatrimonyItems()
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	totalPurchase := decimal.Zero
	for _, item := range items {
		totalValue = totalValue.Add(item.CurrentValue)
		totalPurchase = totalPurchase.Add(item.PurchaseValue)
	}
	variation := totalValue.Sub(totalPurchase)
	variationPct := decimal.Zero
	if totalPurchase.IsPositive() {
		variationPct = variation.Div(totalPurchase).Mul(decimal.NewFromInt(100))
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var existing PatrimonySnapshot
	found := true
	err = s.db.Where("period = ? AND date >= ? AND date < ?", period, dayStart, dayEnd).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr("save snapshot", err)
		}
		found = false
	}

	snapshot := PatrimonySnapshot{
		Date:               now,
		TotalValue:         totalValue,
		TotalPurchaseValue: totalPurchase,
		TotalVariation:     variation,
		TotalVariationPct:  variationPct,
		ItemsCount:         len(items),
		Period:             period,
	}
	if found {
		snapshot.ID = existing.ID
		if err := s.db.Save(&snapshot).Error; err != nil {
			return nil, translateErr("save snapshot", err)
		}
		s.log.WithField("period", period).Info("snapshot overwritten for today")
		return &snapshot, nil
	}

	snapshot.ID = s.NewSnapshotID()
	if err := s.db.Create(&snapshot).Error; err != nil {
		return nil, translateErr("save snapshot", err)
	}
	return &snapshot, nil
}

// AddSnapshot inserts a prebuilt snapshot row, assigning an id when
// missing. Used by the backup importer; SaveSnapshot is the normal path.
func (s *Store) AddSnapshot(snapshot *PatrimonySnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = s.NewSnapshotID()
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		return translateErr("add snapshot", err)
	}
	return nil
}

// SnapshotsByPeriod returns up to limit snapshots for the period, newest
// first. limit <= 0 means no limit.
func (s *Store) SnapshotsByPeriod(period SnapshotPeriod, limit int) ([]PatrimonySnapshot, error) {
	q := s.db.Where("period = ?", period).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var snapshots []PatrimonySnapshot
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, storageErr("get snapshots", err)
	}
	return snapshots, nil
}

func (s *Store) Snapshots() ([]PatrimonySnapshot, error) {
	var snapshots []PatrimonySnapshot
	if err := s.db.Order("date DESC").Find(&snapshots).Error; err != nil {
		return nil, storageErr("get snapshots", err)
	}
	return snapshots, nil
}
