package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	defaultStorePath = "~/.local/state/ladle/session.db"
	bucketSession    = "session"
	keyCurrent       = "current"
)

// Store persists the session between runs in a bolt database.
type Store struct {
	path string
}

// NewStore returns a store at path; an empty path uses the default under
// the user's state directory.
func NewStore(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Load reads the persisted session. A missing database or record yields a
// signed-out session with no error; the cache is best-effort.
func (st *Store) Load() Session {
	var s Session
	if _, err := os.Stat(st.path); errors.Is(err, os.ErrNotExist) {
		return s
	}
	db, err := st.open()
	if err != nil {
		return s
	}
	defer func() { _ = db.Close() }()

	_ = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(keyCurrent))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			s = Session{}
		}
		return nil
	})
	return s
}

// Save persists the session, creating the database and its directory as
// needed.
func (st *Store) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	db, err := st.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketSession))
		if err != nil {
			return err
		}
		return b.Put([]byte(keyCurrent), raw)
	})
}

// Clear deletes the persisted session. Called on logout.
func (st *Store) Clear() error {
	if _, err := os.Stat(st.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := st.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSession))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(keyCurrent))
	})
}

func (st *Store) open() (*bolt.DB, error) {
	db, err := bolt.Open(st.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return db, nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultStorePath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
