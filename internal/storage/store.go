package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store owns the four ledger tables on an embedded SQLite database.
// Construct it once with Open, pass it by reference, and Close it on
// shutdown; there is no package-level handle.
type Store struct {
	db   *gorm.DB
	path string
	log  *logrus.Logger

	idMu   sync.Mutex
	lastID int64
}

func Open(path string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db, path: path, log: log}, nil
}

func openDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("close", err)
	}
	return sqlDB.Close()
}

// ClearAll empties every table in a single transaction. Failure of any
// one table aborts the whole group, and the schema stays open.
func (s *Store) ClearAll() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&Transaction{}, &FixedExpense{}, &PatrimonyItem{}, &PatrimonySnapshot{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("clear all", err)
	}
	s.log.Info("all tables cleared")
	return nil
}

// ForceClear is the factory reset: it closes the connection, deletes the
// database file and recreates an empty schema. Distinct from ClearAll,
// which keeps the file and the open handle.
func (s *Store) ForceClear() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr("force clear", err)
	}
	if err := sqlDB.Close(); err != nil {
		return storageErr("force clear", err)
	}

	if isFileBacked(s.path) {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
				return storageErr("force clear", err)
			}
		}
	}

	db, err := openDB(s.path)
	if err != nil {
		return err
	}
	if isFileBacked(s.path) {
		if err := migrate(db); err != nil {
			return err
		}
	} else {
		// In-memory databases cannot be deleted from disk; drop and
		// recreate the schema instead.
		if err := rebuildSchema(db); err != nil {
			return err
		}
	}
	s.db = db
	s.log.Warn("database deleted and recreated")
	return nil
}

func isFileBacked(path string) bool {
	return path != ":memory:" && !strings.HasPrefix(path, "file::memory:")
}

func rebuildSchema(db *gorm.DB) error {
	for _, model := range []interface{}{
		&Transaction{}, &FixedExpense{}, &PatrimonyItem{}, &PatrimonySnapshot{}, &schemaMigration{},
	} {
		if db.Migrator().HasTable(model) {
			if err := db.Migrator().DropTable(model); err != nil {
				return storageErr("rebuild schema", err)
			}
		}
	}
	return migrate(db)
}

// nextID returns a millisecond timestamp, bumped past the previous one so
// that back-to-back inserts (transfer legs, import loops) never collide.
func (s *Store) nextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) nextStringID() string {
	return strconv.FormatInt(s.nextID(), 10)
}
