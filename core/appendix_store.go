package core

// KVPrunableStore is the default PrunableMessageStore, backed by a
// cosmos-db key/value database (spec §6's prunable message store
// collaborator). A production node points it at a durable backend
// (goleveldb, pebble, ...); NewMemoryPrunableStore wires the in-memory
// MemDB backend, which the test suite uses.

import (
	"encoding/binary"
	"fmt"
	"sync"

	dbm "github.com/cosmos/cosmos-db"
)

// KVPrunableStore implements PrunableMessageStore over a cosmos-db KV store.
// Add is idempotent: re-adding the same txID with an identical payload is a
// no-op; re-adding with a different payload is an error, since a prunable
// payload is content-addressed and a transaction id must never carry two.
type KVPrunableStore struct {
	mu sync.Mutex
	db dbm.DB
}

// NewKVPrunableStore wraps an existing cosmos-db database.
func NewKVPrunableStore(db dbm.DB) *KVPrunableStore {
	return &KVPrunableStore{db: db}
}

// NewMemoryPrunableStore returns a store backed by cosmos-db's in-memory
// MemDB, suitable for tests and single-process demos.
func NewMemoryPrunableStore() *KVPrunableStore {
	return NewKVPrunableStore(dbm.NewMemDB())
}

func prunableKey(txID int64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(txID))
	return k[:]
}

func encodePrunablePayload(p PrunablePayload) []byte {
	buf := NewWriteBuffer(14 + len(p.Nonce) + len(p.Data))
	var flags byte
	if p.IsText {
		flags |= 1
	}
	if p.IsCompressed {
		flags |= 2
	}
	buf.PutByte(flags)
	buf.PutInt32(p.Timestamp)
	buf.PutInt32(p.Height)
	buf.PutInt32(int32(len(p.Nonce)))
	buf.PutBytes(p.Nonce)
	buf.PutBytes(p.Data)
	return buf.Bytes()
}

func decodePrunablePayload(raw []byte) (PrunablePayload, error) {
	buf := NewReadBuffer(raw)
	flags, err := buf.GetByte()
	if err != nil {
		return PrunablePayload{}, err
	}
	ts, err := buf.GetInt32()
	if err != nil {
		return PrunablePayload{}, err
	}
	height, err := buf.GetInt32()
	if err != nil {
		return PrunablePayload{}, err
	}
	nonceLen, err := buf.GetInt32()
	if err != nil {
		return PrunablePayload{}, err
	}
	nonce, err := buf.GetBytes(int(nonceLen))
	if err != nil {
		return PrunablePayload{}, err
	}
	data, err := buf.GetBytes(buf.Remaining())
	if err != nil {
		return PrunablePayload{}, err
	}
	return PrunablePayload{
		IsText:       flags&1 != 0,
		IsCompressed: flags&2 != 0,
		Data:         append([]byte(nil), data...),
		Nonce:        append([]byte(nil), nonce...),
		Timestamp:    ts,
		Height:       height,
	}, nil
}

// Add stores payload under txID. Re-adding an identical payload is a no-op;
// re-adding a different one is an error.
func (s *KVPrunableStore) Add(txID int64, payload PrunablePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := prunableKey(txID)
	existing, err := s.db.Get(key)
	if err != nil {
		return fmt.Errorf("prunable store get: %w", err)
	}
	encoded := encodePrunablePayload(payload)
	if existing != nil {
		if string(existing) != string(encoded) {
			return fmt.Errorf("%w: prunable payload for tx %d already on file and differs", ErrNotValid, txID)
		}
		return nil
	}
	if err := s.db.Set(key, encoded); err != nil {
		return fmt.Errorf("prunable store set: %w", err)
	}
	return nil
}

// Get returns the payload stored for txID, if any.
func (s *KVPrunableStore) Get(txID int64) (PrunablePayload, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.db.Get(prunableKey(txID))
	if err != nil {
		return PrunablePayload{}, false, fmt.Errorf("prunable store get: %w", err)
	}
	if raw == nil {
		return PrunablePayload{}, false, nil
	}
	payload, err := decodePrunablePayload(raw)
	if err != nil {
		return PrunablePayload{}, false, err
	}
	return payload, true, nil
}
