package backup

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := storage.Open(path, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestParseRejectsMissingTableField(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing patrimonyHistory",
			data: `{"transactions":[],"fixedExpenses":[],"patrimony":[],"exportDate":"2024-01-01T00:00:00Z","version":"1.0"}`,
		},
		{
			name: "missing version",
			data: `{"transactions":[],"fixedExpenses":[],"patrimony":[],"patrimonyHistory":[],"exportDate":"2024-01-01T00:00:00Z"}`,
		},
		{
			name: "not json",
			data: `<html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("want ErrInvalidBackup, got %v", err)
			}
		})
	}
}

func TestParseAcceptsEmptyTables(t *testing.T) {
	data := `{"transactions":[],"fixedExpenses":[],"patrimony":[],"patrimonyHistory":[],"exportDate":"2024-01-01T00:00:00Z","version":"1.0"}`
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Version != Version {
		t.Fatalf("want version %q, got %q", Version, doc.Version)
	}
}

func TestImportInvalidDocumentLeavesStoreUntouched(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddTransaction(&storage.Transaction{Amount: decimal.NewFromInt(10), Kind: storage.KindExpense, Category: "Food"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	doc := &Document{Version: Version} // all four arrays nil
	if _, err := Import(s, doc, nil); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("want ErrInvalidBackup, got %v", err)
	}

	txns, err := s.Transactions()
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("store must be untouched after failed validation, got %d rows", len(txns))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)

	tx := storage.Transaction{Description: "salary", Amount: decimal.NewFromInt(1000), Kind: storage.KindIncome, Category: "Work", Account: storage.AccountBanks, Date: time.Now()}
	if err := src.AddTransaction(&tx); err != nil {
		t.Fatalf("add transaction failed: %v", err)
	}
	exp := storage.FixedExpense{Name: "Rent", Amount: decimal.NewFromInt(900), DueDate: time.Now().AddDate(0, 0, 5), Category: "Housing"}
	if err := src.AddFixedExpense(&exp); err != nil {
		t.Fatalf("add expense failed: %v", err)
	}
	item := storage.PatrimonyItem{Name: "Car", Category: storage.PatrimonyVehicle, PurchaseValue: decimal.NewFromInt(10000), CurrentValue: decimal.NewFromInt(8000), PurchaseDate: time.Now(), LastUpdate: time.Now()}
	if err := src.AddPatrimonyItem(&item); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := src.SaveSnapshot(storage.PeriodMonthly, time.Now()); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	doc, err := Export(src)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if doc.Version != Version {
		t.Fatalf("want version %q, got %q", Version, doc.Version)
	}
	if doc.ExportDate.IsZero() {
		t.Fatalf("export date not stamped")
	}

	dst := newTestStore(t)
	report, err := Import(dst, doc, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Inserted != 4 {
		t.Fatalf("want 4 inserted, got %+v", report)
	}
	if report.Dropped != 0 {
		t.Fatalf("want 0 dropped, got %+v", report)
	}

	txns, _ := dst.Transactions()
	if len(txns) != 1 || txns[0].Description != "salary" {
		t.Fatalf("transaction not restored: %+v", txns)
	}
	// Primary keys are reassigned, content carries over.
	if txns[0].ID == tx.ID {
		t.Fatalf("imported transaction kept its old id %d", tx.ID)
	}
	if !txns[0].Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("want amount 1000, got %s", txns[0].Amount)
	}

	expenses, _ := dst.FixedExpenses()
	if len(expenses) != 1 || expenses[0].Name != "Rent" || expenses[0].ID == exp.ID {
		t.Fatalf("fixed expense not restored with fresh id: %+v", expenses)
	}
	items, _ := dst.PatrimonyItems()
	if len(items) != 1 || items[0].Name != "Car" {
		t.Fatalf("patrimony item not restored: %+v", items)
	}
	snapshots, _ := dst.Snapshots()
	if len(snapshots) != 1 {
		t.Fatalf("want 1 snapshot, got %d", len(snapshots))
	}
}

func TestImportReplacesExistingData(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddTransaction(&storage.Transaction{Description: "old", Amount: decimal.NewFromInt(5), Kind: storage.KindExpense, Category: "Food"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	doc := &Document{
		Transactions: []storage.Transaction{
			{Description: "new", Amount: decimal.NewFromInt(7), Kind: storage.KindIncome, Category: "Pay", Date: time.Now()},
		},
		FixedExpenses:    []storage.FixedExpense{},
		Patrimony:        []storage.PatrimonyItem{},
		PatrimonyHistory: []storage.PatrimonySnapshot{},
		ExportDate:       time.Now(),
		Version:          Version,
	}
	report, err := Import(s, doc, nil)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Inserted != 1 {
		t.Fatalf("want 1 inserted, got %+v", report)
	}

	txns, _ := s.Transactions()
	if len(txns) != 1 || txns[0].Description != "new" {
		t.Fatalf("import must replace existing rows, got %+v", txns)
	}
}

func TestDedupSnapshotsKeepsFirstPerDayAndPeriod(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	snapshots := []storage.PatrimonySnapshot{
		{ID: "a", Date: day.Add(9 * time.Hour), Period: storage.PeriodMonthly, TotalValue: decimal.NewFromInt(100)},
		{ID: "b", Date: day.Add(15 * time.Hour), Period: storage.PeriodMonthly, TotalValue: decimal.NewFromInt(200)},
		{ID: "c", Date: day.Add(15 * time.Hour), Period: storage.PeriodAnnual, TotalValue: decimal.NewFromInt(300)},
		{ID: "a", Date: day.AddDate(0, 0, 1), Period: storage.PeriodMonthly, TotalValue: decimal.NewFromInt(400)},
	}
	out := dedupSnapshots(snapshots)
	if len(out) != 2 {
		t.Fatalf("want 2 snapshots, got %d", len(out))
	}
	if out[0].ID != "a" || !out[0].TotalValue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("first same-day snapshot must win, got %+v", out[0])
	}
	if out[1].ID != "c" {
		t.Fatalf("different period on same day must survive, got %+v", out[1])
	}
}
