package persistence

import (
	"errors"
	"fmt"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	bolt "go.etcd.io/bbolt"
	"os"
	"time"
)

const (
	BackendFile = "file"
	BackendBolt = "bolt"

	BucketFiles = "files"
)

// ErrStorageUnavailable is returned when the storage cannot be read from or written to
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage reads and writes whole files.
// ReadFile returns an error wrapping os.ErrNotExist if there is no file at path.
type Storage interface {
	Init() error

	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// NewStorage returns the storage implementation for the given backend name
func NewStorage(backend string, dbPath string) (Storage, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStorage(), nil
	case BackendBolt:
		return NewBoltStorage(dbPath), nil
	}
	return nil, fmt.Errorf("unsupported storage backend '%s', use one of: %s | %s", backend, BackendFile, BackendBolt)
}

type fileStorage struct{}

// NewFileStorage stores every file on the local filesystem, replacing it atomically on write
func NewFileStorage() Storage {
	return &fileStorage{}
}

func (s fileStorage) Init() error {
	return nil
}

func (s fileStorage) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s fileStorage) WriteFile(path string, data []byte) error {
	return util.WriteFileAtomic(path, data)
}

type boltStorage struct {
	dbPath string
}

// NewBoltStorage keeps all files as values of a single bbolt bucket, keyed by path
func NewBoltStorage(dbPath string) Storage {
	return &boltStorage{
		dbPath: dbPath,
	}
}

func (s boltStorage) Init() (err error) {
	if err = util.EnsureParentDir(s.dbPath); err != nil {
		return err
	}
	ui.Debug("Using database at: %s", s.dbPath)
	return nil
}

func (s boltStorage) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(s.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (s boltStorage) ReadFile(path string) ([]byte, error) {
	db, err := s.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var data []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketFiles))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(path))
		if v == nil {
			return os.ErrNotExist
		}
		// v is only valid during the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})

	return data, err
}

func (s boltStorage) WriteFile(path string, data []byte) error {
	db, err := s.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketFiles))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(path), data)
	})
}
