package pagestore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/lirlia/pagekv"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	pagesBucket = "pages"
	metaBucket  = "meta"
	nextPageKey = "next_page_id"
)

// BoltStore is a durable PageCache backed by a bbolt database: one
// bucket holding a gob-encoded frag chain per PageId, plus a small meta
// bucket for the page-id counter. bbolt's own transaction log takes the
// place of hand-rolled page-offset arithmetic and fsync bookkeeping.
type BoltStore struct {
	db  *bbolt.DB
	log *zap.Logger
}

// OpenBoltStore opens (creating if necessary) a bbolt-backed page store
// at path. A nil logger is treated as zap.NewNop().
func OpenBoltStore(path string, logger *zap.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("pagestore: opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(pagesBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("pagestore: initializing buckets in %s: %w", path, err)
	}
	logger.Info("opened page store", zap.String("path", path))
	return &BoltStore{db: db, log: logger}, nil
}

// Close flushes and closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func pageKey(pid pagekv.PageId) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(pid))
	return b[:]
}

func encodeChain(chain []pagekv.Frag) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&chain); err != nil {
		return nil, fmt.Errorf("pagestore: encoding frag chain: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeChain(data []byte) ([]pagekv.Frag, error) {
	var chain []pagekv.Frag
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&chain); err != nil {
		return nil, fmt.Errorf("pagestore: decoding frag chain: %w", err)
	}
	return chain, nil
}

type boltGuard struct{}

func (boltGuard) Release() {}

// Pin returns a no-op Guard: bbolt's own transaction locking is what
// actually scopes concurrent access here.
func (s *BoltStore) Pin() pagekv.Guard { return boltGuard{} }

// AllocatePage assigns a fresh PageId, durably, and seeds its chain with
// base.
func (s *BoltStore) AllocatePage(base pagekv.Frag) (pagekv.PageId, error) {
	var pid pagekv.PageId
	err := s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucket))
		pages := tx.Bucket([]byte(pagesBucket))

		next := uint64(1)
		if v := meta.Get([]byte(nextPageKey)); v != nil {
			next = binary.BigEndian.Uint64(v)
		}
		pid = pagekv.PageId(next)

		var nb [8]byte
		binary.BigEndian.PutUint64(nb[:], next+1)
		if err := meta.Put([]byte(nextPageKey), nb[:]); err != nil {
			return err
		}

		enc, err := encodeChain([]pagekv.Frag{base})
		if err != nil {
			return err
		}
		return pages.Put(pageKey(pid), enc)
	})
	if err != nil {
		return 0, fmt.Errorf("pagestore: AllocatePage: %w", err)
	}
	s.log.Debug("allocated page", zap.Uint64("page_id", uint64(pid)))
	return pid, nil
}

// Get implements pagekv.PageCache.
func (s *BoltStore) Get(pid pagekv.PageId, _ pagekv.Guard) (pagekv.Frag, []pagekv.Frag, error) {
	var chain []pagekv.Frag
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(pagesBucket)).Get(pageKey(pid))
		if data == nil {
			return fmt.Errorf("%w: %d", ErrPageNotFound, pid)
		}
		decoded, err := decodeChain(data)
		if err != nil {
			return err
		}
		chain = decoded
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(chain) == 0 {
		return nil, nil, fmt.Errorf("%w: %d is empty", ErrPageNotFound, pid)
	}
	return chain[0], chain[1:], nil
}

// Link implements pagekv.PageCache.
func (s *BoltStore) Link(pid pagekv.PageId, frag pagekv.Frag, _ pagekv.Guard) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		data := bucket.Get(pageKey(pid))
		if data == nil {
			return fmt.Errorf("%w: %d", ErrPageNotFound, pid)
		}
		chain, err := decodeChain(data)
		if err != nil {
			return err
		}
		chain = append(chain, frag)
		enc, err := encodeChain(chain)
		if err != nil {
			return err
		}
		return bucket.Put(pageKey(pid), enc)
	})
}

// Replace implements pagekv.PageCache.
func (s *BoltStore) Replace(pid pagekv.PageId, newChain []pagekv.Frag, _ pagekv.Guard) error {
	if len(newChain) == 0 {
		return fmt.Errorf("pagestore: Replace requires a non-empty chain for page %d", pid)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		if bucket.Get(pageKey(pid)) == nil {
			return fmt.Errorf("%w: %d", ErrPageNotFound, pid)
		}
		enc, err := encodeChain(newChain)
		if err != nil {
			return err
		}
		return bucket.Put(pageKey(pid), enc)
	})
}
