package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

type fakeClient struct {
	remote  []storage.Transaction
	loadErr error
	saveErr error
	saved   []storage.Transaction
}

func (f *fakeClient) CheckConnection(ctx context.Context) bool { return f.loadErr == nil }

func (f *fakeClient) LoadRemote(ctx context.Context) ([]storage.Transaction, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.remote, nil
}

func (f *fakeClient) SaveRemote(ctx context.Context, txns []storage.Transaction) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = txns
	return nil
}

func (f *fakeClient) Metadata(ctx context.Context) (*FileInfo, error) {
	return &FileInfo{LastModified: time.Now(), SizeBytes: 1}, nil
}

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

func tx(id int64, desc string) storage.Transaction {
	return storage.Transaction{
		ID:          id,
		Description: desc,
		Amount:      decimal.NewFromInt(10),
		Kind:        storage.KindExpense,
		Category:    "Food",
		Account:     storage.AccountCash,
		Date:        time.Now(),
	}
}

func TestMergeFirstSeenWins(t *testing.T) {
	local := []storage.Transaction{tx(1, "local-1"), tx(2, "local-2")}
	remote := []storage.Transaction{tx(2, "remote-2"), tx(3, "remote-3")}

	merged := Merge(local, remote)
	if len(merged) != 3 {
		t.Fatalf("want 3 merged, got %d", len(merged))
	}
	if merged[0].ID != 1 || merged[1].ID != 2 || merged[2].ID != 3 {
		t.Fatalf("bad order: %d,%d,%d", merged[0].ID, merged[1].ID, merged[2].ID)
	}
	// Local copy of the shared id wins.
	if merged[1].Description != "local-2" {
		t.Fatalf("want local copy of id 2, got %q", merged[1].Description)
	}
}

func TestMergeEmptySides(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Fatalf("want empty merge, got %d", len(got))
	}
	remote := []storage.Transaction{tx(9, "remote")}
	got := Merge(nil, remote)
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("remote-only merge lost rows: %+v", got)
	}
}

func TestSyncPersistsRemoteOnlyRows(t *testing.T) {
	s := newTestStore(t)

	localTx := tx(1, "local")
	if err := s.AddTransaction(&localTx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	client := &fakeClient{remote: []storage.Transaction{tx(1, "stale-copy"), tx(2, "remote-only")}}
	sy := New(s, client, nil)

	merged, err := sy.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("want 2 merged, got %d", len(merged))
	}
	if len(client.saved) != 2 {
		t.Fatalf("merged list not written back, got %d", len(client.saved))
	}

	txns, err := s.Transactions()
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("remote-only row not persisted, got %d rows", len(txns))
	}
	byID := map[int64]storage.Transaction{}
	for _, got := range txns {
		byID[got.ID] = got
	}
	// The remote row keeps its remote id so a later sync dedups it.
	if byID[2].Description != "remote-only" {
		t.Fatalf("remote row not persisted under its id: %+v", byID)
	}
	if byID[1].Description != "local" {
		t.Fatalf("local row overwritten: %+v", byID[1])
	}
}

func TestSyncLoadFailureLeavesStoreUntouched(t *testing.T) {
	s := newTestStore(t)
	localTx := tx(1, "local")
	if err := s.AddTransaction(&localTx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	client := &fakeClient{loadErr: ErrNetwork}
	sy := New(s, client, nil)

	if _, err := sy.Sync(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
	if client.saved != nil {
		t.Fatalf("nothing should be written after a failed load")
	}
	txns, _ := s.Transactions()
	if len(txns) != 1 {
		t.Fatalf("store changed after failed sync, got %d rows", len(txns))
	}
}

func TestSyncSaveFailureReported(t *testing.T) {
	s := newTestStore(t)
	client := &fakeClient{
		remote:  []storage.Transaction{tx(5, "remote")},
		saveErr: ErrAuth,
	}
	sy := New(s, client, nil)

	if _, err := sy.Sync(context.Background()); !errors.Is(err, ErrAuth) {
		t.Fatalf("want ErrAuth, got %v", err)
	}
	// Remote rows are only pulled after a successful write-back.
	txns, _ := s.Transactions()
	if len(txns) != 0 {
		t.Fatalf("remote rows persisted despite failed save, got %d", len(txns))
	}
}
