package storage

import "time"

// AddPatrimonyItem assigns a fresh id and stamps LastUpdate when missing.
func (s *Store) AddPatrimonyItem(item *PatrimonyItem) error {
	if item.ID == "" {
		item.ID = s.nextStringID()
	}
	if item.LastUpdate.IsZero() {
		item.LastUpdate = time.Now()
	}
	if err := s.db.Create(item).Error; err != nil {
		return translateErr("add patrimony item", err)
	}
	return nil
}

func (s *Store) PatrimonyItems() ([]PatrimonyItem, error) {
	var items []PatrimonyItem
	if err := s.db.Order("id DESC").Find(&items).Error; err != nil {
		return nil, storageErr("get patrimony items", err)
	}
	return items, nil
}

func (s *Store) PatrimonyItemByID(id string) (*PatrimonyItem, error) {
	var item PatrimonyItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, translateErr("get patrimony item", err)
	}
	return &item, nil
}

// UpdatePatrimonyItem replaces the full record, keeping the original id
// and bumping LastUpdate. The target row must exist.
func (s *Store) UpdatePatrimonyItem(item *PatrimonyItem) error {
	if _, err := s.PatrimonyItemByID(item.ID); err != nil {
		return err
	}
	item.LastUpdate = time.Now()
	if err := s.db.Save(item).Error; err != nil {
		return translateErr("update patrimony item", err)
	}
	return nil
}

func (s *Store) DeletePatrimonyItem(id string) error {
	if err := s.db.Delete(&PatrimonyItem{}, "id = ?", id).Error; err != nil {
		return storageErr("delete patrimony item", err)
	}
	return nil
}
