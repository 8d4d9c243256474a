package receipt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

// ErrNotFound is returned by Lookup for ids that were never issued.
var ErrNotFound = errors.New("receipt not found")

const receiptKeyPrefix = "receipt:"

// Store holds accepted receipts for the lifetime of the process, keyed by
// generated id. Entries are written once and never updated or deleted;
// unbounded growth is an accepted property of this design.
type Store interface {
	// Insert assigns a fresh unique id to the receipt, stores it, and
	// returns the id.
	Insert(r Receipt) (string, error)

	// Lookup returns the stored receipt for an id, or ErrNotFound. It
	// never mutates the store.
	Lookup(id string) (*StoredReceipt, error)

	// Count reports how many receipts the store holds.
	Count() (int, error)

	// Close closes the store.
	Close() error
}

// BuntStore implements Store on an in-memory buntdb database. buntdb
// serializes writers and allows concurrent readers, so concurrent Insert
// and Lookup calls are safe.
type BuntStore struct {
	db *buntdb.DB
}

// NewBuntStore opens a fresh in-memory store.
func NewBuntStore() (*BuntStore, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory db: %w", err)
	}
	return &BuntStore{db: db}, nil
}

// Insert stores the receipt as JSON under a fresh UUID key and returns
// the id. The id is generated and checked inside a single write
// transaction, so concurrent inserts can never be assigned the same id.
func (s *BuntStore) Insert(r Receipt) (string, error) {
	var id string
	err := s.db.Update(func(tx *buntdb.Tx) error {
		// Collisions are astronomically unlikely; retry anyway.
		for {
			id = uuid.NewString()
			if _, err := tx.Get(receiptKeyPrefix + id); errors.Is(err, buntdb.ErrNotFound) {
				break
			}
		}
		data, err := json.Marshal(StoredReceipt{ID: id, Receipt: r})
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		_, _, err = tx.Set(receiptKeyPrefix+id, string(data), nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Lookup retrieves a stored receipt by id.
func (s *BuntStore) Lookup(id string) (*StoredReceipt, error) {
	var stored *StoredReceipt
	err := s.db.View(func(tx *buntdb.Tx) error {
		data, err := tx.Get(receiptKeyPrefix + id)
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := json.Unmarshal([]byte(data), &stored); err != nil {
			return fmt.Errorf("unmarshaling receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Count reports how many receipts the store holds. The database carries
// only receipt keys, so the key count is the receipt count.
func (s *BuntStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying database.
func (s *BuntStore) Close() error {
	return s.db.Close()
}
