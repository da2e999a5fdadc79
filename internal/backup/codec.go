// Package backup serializes the four ledger tables into one portable
// JSON document and restores them. Import is destructive: it validates
// the document first, wipes the database, then reinserts every record
// with fresh primary keys.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

// Version is the backup document format version.
const Version = "1.0"

var ErrInvalidBackup = errors.New("invalid backup document")

// Document is the backup file format. All four arrays must be present
// (empty is fine, missing is not).
type Document struct {
	Transactions     []storage.Transaction       `json:"transactions"`
	FixedExpenses    []storage.FixedExpense      `json:"fixedExpenses"`
	Patrimony        []storage.PatrimonyItem     `json:"patrimony"`
	PatrimonyHistory []storage.PatrimonySnapshot `json:"patrimonyHistory"`
	ExportDate       time.Time                   `json:"exportDate"`
	Version          string                      `json:"version" validate:"required"`
}

var validate = validator.New()

// Validate runs the structural check that gates Import. It fails before
// any destructive action when one of the four array fields is missing
// from the document or the version stamp is absent.
func (d *Document) Validate() error {
	if d.Transactions == nil || d.FixedExpenses == nil || d.Patrimony == nil || d.PatrimonyHistory == nil {
		return fmt.Errorf("%w: missing table field", ErrInvalidBackup)
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return nil
}

// Parse decodes and validates a backup document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Export snapshots all four tables into a stamped document. Each table
// is deduplicated by primary key; history rows are additionally
// deduplicated by (calendar day, period), first occurrence winning.
func Export(store *storage.Store) (*Document, error) {
	txns, err := store.Transactions()
	if err != nil {
		return nil, err
	}
	expenses, err := store.FixedExpenses()
	if err != nil {
		return nil, err
	}
	items, err := store.PatrimonyItems()
	if err != nil {
		return nil, err
	}
	snapshots, err := store.Snapshots()
	if err != nil {
		return nil, err
	}

	return &Document{
		Transactions:     dedupTransactions(txns),
		FixedExpenses:    dedupFixedExpenses(expenses),
		Patrimony:        dedupPatrimony(items),
		PatrimonyHistory: dedupSnapshots(snapshots),
		ExportDate:       time.Now(),
		Version:          Version,
	}, nil
}

func dedupTransactions(txns []storage.Transaction) []storage.Transaction {
	seen := make(map[int64]bool, len(txns))
	out := make([]storage.Transaction, 0, len(txns))
	for _, t := range txns {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

func dedupFixedExpenses(expenses []storage.FixedExpense) []storage.FixedExpense {
	seen := make(map[string]bool, len(expenses))
	out := make([]storage.FixedExpense, 0, len(expenses))
	for _, e := range expenses {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

func dedupPatrimony(items []storage.PatrimonyItem) []storage.PatrimonyItem {
	seen := make(map[string]bool, len(items))
	out := make([]storage.PatrimonyItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func dedupSnapshots(snapshots []storage.PatrimonySnapshot) []storage.PatrimonySnapshot {
	seenID := make(map[string]bool, len(snapshots))
	seenDay := make(map[string]bool, len(snapshots))
	out := make([]storage.PatrimonySnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		key := s.Date.Format("2006-01-02") + "|" + string(s.Period)
		if seenID[s.ID] || seenDay[key] {
			continue
		}
		seenID[s.ID] = true
		seenDay[key] = true
		out = append(out, s)
	}
	return out
}

// Report is what Import hands back instead of swallowing per-row
// failures into a log: how many rows went in, how many needed the
// one-shot id retry, how many were dropped.
type Report struct {
	Inserted int
	Retried  int
	Dropped  int
}

// Import wipes the database via force-clear and reinserts every record
// from the document with primary keys stripped, so the store assigns
// fresh ids. A history row whose fresh id still collides is retried once
// with another id and then dropped; the import continues either way.
// Validation failures happen before the wipe.
func Import(store *storage.Store, doc *Document, log *logrus.Logger) (*Report, error) {
	if log == nil {
		log = logrus.New()
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := store.ForceClear(); err != nil {
		return nil, err
	}

	report := &Report{}

	for _, t := range doc.Transactions {
		t.ID = 0
		if err := store.AddTransaction(&t); err != nil {
			report.Dropped++
			log.WithError(err).Warn("dropped transaction during import")
			continue
		}
		report.Inserted++
	}

	for _, e := range doc.FixedExpenses {
		e.ID = ""
		if err := store.AddFixedExpense(&e); err != nil {
			report.Dropped++
			log.WithError(err).Warn("dropped fixed expense during import")
			continue
		}
		report.Inserted++
	}

	for _, item := range doc.Patrimony {
		item.ID = ""
		if err := store.AddPatrimonyItem(&item); err != nil {
			report.Dropped++
			log.WithError(err).Warn("dropped patrimony item during import")
			continue
		}
		report.Inserted++
	}

	for _, snap := range dedupSnapshots(doc.PatrimonyHistory) {
		snap.ID = store.NewSnapshotID()
		err := store.AddSnapshot(&snap)
		if errors.Is(err, storage.ErrDuplicateKey) {
			report.Retried++
			snap.ID = store.NewSnapshotID()
			err = store.AddSnapshot(&snap)
		}
		if err != nil {
			report.Dropped++
			log.WithError(err).Warn("dropped history snapshot during import")
			continue
		}
		report.Inserted++
	}

	log.WithFields(logrus.Fields{
		"inserted": report.Inserted,
		"retried":  report.Retried,
		"dropped":  report.Dropped,
	}).Info("import finished")
	return report, nil
}
