// Package syncer replicates the transaction table to a single remote
// document. The remote format (v1.0.0) carries only transactions; fixed
// expenses and patrimony stay local and travel via backup files instead.
package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/starsgrow/libertad-financiera/internal/storage"
)

var (
	ErrNetwork = errors.New("sync: remote unreachable")
	ErrAuth    = errors.New("sync: authorization rejected")
)

// RemoteVersion is the remote document format version.
const RemoteVersion = "1.0.0"

// RemoteDocument is the single JSON file kept in the cloud store.
type RemoteDocument struct {
	Transactions []storage.Transaction `json:"transactions"`
	LastSync     time.Time             `json:"lastSync"`
	Version      string                `json:"version"`
}

type FileInfo struct {
	LastModified time.Time
	SizeBytes    int64
}

// Client is the cloud-file collaborator boundary. Implementations return
// errors wrapping ErrNetwork or ErrAuth so callers can tell the two
// apart.
type Client interface {
	CheckConnection(ctx context.Context) bool
	LoadRemote(ctx context.Context) ([]storage.Transaction, error)
	SaveRemote(ctx context.Context, txns []storage.Transaction) error
	// Metadata returns nil when the remote file does not exist yet.
	Metadata(ctx context.Context) (*FileInfo, error)
}

// Merge concatenates local and remote and deduplicates by transaction
// id, first occurrence winning (local rows come first). Transactions are
// add/delete-only, so equal ids carry equal content; the known loss case
// is a row deleted on one device being resurrected by the other's copy.
func Merge(local, remote []storage.Transaction) []storage.Transaction {
	seen := make(map[int64]bool, len(local)+len(remote))
	merged := make([]storage.Transaction, 0, len(local)+len(remote))
	for _, t := range append(append([]storage.Transaction{}, local...), remote...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
	}
	return merged
}

type Syncer struct {
	store  *storage.Store
	client Client
	log    *logrus.Logger
}

func New(store *storage.Store, client Client, log *logrus.Logger) *Syncer {
	if log == nil {
		log = logrus.New()
	}
	return &Syncer{store: store, client: client, log: log}
}

// Sync loads the remote transaction list, merges it with the local
// table, writes the merged list back to the remote, and persists any
// remote-only rows locally. Returns the merged list.
func (s *Syncer) Sync(ctx context.Context) ([]storage.Transaction, error) {
	remote, err := s.client.LoadRemote(ctx)
	if err != nil {
		return nil, err
	}
	local, err := s.store.Transactions()
	if err != nil {
		return nil, err
	}

	merged := Merge(local, remote)
	if err := s.client.SaveRemote(ctx, merged); err != nil {
		return nil, err
	}

	localIDs := make(map[int64]bool, len(local))
	for _, t := range local {
		localIDs[t.ID] = true
	}
	var pulled int
	for _, t := range merged {
		if localIDs[t.ID] {
			continue
		}
		t := t
		if err := s.store.AddTransaction(&t); err != nil {
			s.log.WithError(err).WithField("id", t.ID).Warn("failed to persist remote transaction")
			continue
		}
		pulled++
	}

	s.log.WithFields(logrus.Fields{
		"local": len(local), "remote": len(remote), "merged": len(merged), "pulled": pulled,
	}).Info("sync finished")
	return merged, nil
}
