package pagestore

import (
	"fmt"
	"sync"

	"github.com/lirlia/pagekv"
	"go.uber.org/zap"
)

// MemoryStore is an in-process PageCache: a table of frag chains guarded
// by a single RWMutex, with a monotonic counter handing out fresh page
// ids.
type MemoryStore struct {
	mu         sync.RWMutex
	chains     map[pagekv.PageId][]pagekv.Frag
	nextPageId uint64
	log        *zap.Logger
}

// NewMemoryStore returns an empty store. A nil logger is treated as
// zap.NewNop().
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		chains:     make(map[pagekv.PageId][]pagekv.Frag),
		nextPageId: 1,
		log:        logger,
	}
}

type memGuard struct{}

func (memGuard) Release() {}

// Pin returns a no-op Guard: the in-memory store has no epoch
// reclamation to scope, it just holds its mutex for the duration of each
// call.
func (s *MemoryStore) Pin() pagekv.Guard { return memGuard{} }

// AllocatePage assigns a fresh PageId and seeds its chain with base.
func (s *MemoryStore) AllocatePage(base pagekv.Frag) (pagekv.PageId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid := pagekv.PageId(s.nextPageId)
	s.nextPageId++
	s.chains[pid] = []pagekv.Frag{base}
	s.log.Debug("allocated page", zap.Uint64("page_id", uint64(pid)))
	return pid, nil
}

// Get implements pagekv.PageCache.
func (s *MemoryStore) Get(pid pagekv.PageId, _ pagekv.Guard) (pagekv.Frag, []pagekv.Frag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain, ok := s.chains[pid]
	if !ok || len(chain) == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrPageNotFound, pid)
	}
	rest := make([]pagekv.Frag, len(chain)-1)
	copy(rest, chain[1:])
	return chain[0], rest, nil
}

// Link implements pagekv.PageCache.
func (s *MemoryStore) Link(pid pagekv.PageId, frag pagekv.Frag, _ pagekv.Guard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain, ok := s.chains[pid]
	if !ok {
		return fmt.Errorf("%w: %d", ErrPageNotFound, pid)
	}
	s.chains[pid] = append(chain, frag)
	s.log.Debug("linked frag", zap.Uint64("page_id", uint64(pid)), zap.Uint8("ordinal", uint8(frag.Ordinal())))
	return nil
}

// Replace implements pagekv.PageCache.
func (s *MemoryStore) Replace(pid pagekv.PageId, newChain []pagekv.Frag, _ pagekv.Guard) error {
	if len(newChain) == 0 {
		return fmt.Errorf("pagestore: Replace requires a non-empty chain for page %d", pid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chains[pid]; !ok {
		return fmt.Errorf("%w: %d", ErrPageNotFound, pid)
	}
	cloned := make([]pagekv.Frag, len(newChain))
	copy(cloned, newChain)
	s.chains[pid] = cloned
	s.log.Debug("replaced chain", zap.Uint64("page_id", uint64(pid)), zap.Int("chain_len", len(cloned)))
	return nil
}
