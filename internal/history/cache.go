package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CrashRound_Go/internal/domain"
)

type cachedEntry struct {
	Version  string
	Records  []domain.RoundRecord
	CachedAt time.Time
}

// recordCache holds recent-history pages and single rounds. Completed rounds
// never change, so single-round entries only leave by eviction or TTL; pages
// are dropped whenever a round is appended. A page read from the store is
// only cached if no append happened since the read began.
type recordCache struct {
	pages  *expirable.LRU[int, *cachedEntry]
	rounds *expirable.LRU[uuid.UUID, *cachedEntry]

	mu         sync.Mutex
	generation uint64
}

func newRecordCache(size int, ttl time.Duration) *recordCache {
	return &recordCache{
		pages:  expirable.NewLRU[int, *cachedEntry](size, nil, ttl),
		rounds: expirable.NewLRU[uuid.UUID, *cachedEntry](size, nil, ttl),
	}
}

func (c *recordCache) getPage(limit int) ([]domain.RoundRecord, bool) {
	entry, ok := c.pages.Get(limit)
	if !ok {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.pages.Remove(limit)
		return nil, false
	}
	return append([]domain.RoundRecord(nil), entry.Records...), true
}

// pageGeneration is passed back to setPage to detect appends during a read
func (c *recordCache) pageGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *recordCache) setPage(limit int, records []domain.RoundRecord, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.pages.Add(limit, &cachedEntry{
		Version:  CacheSchemaVersion,
		Records:  append([]domain.RoundRecord(nil), records...),
		CachedAt: time.Now(),
	})
}

func (c *recordCache) getRound(roundID uuid.UUID) (*domain.RoundRecord, bool) {
	entry, ok := c.rounds.Get(roundID)
	if !ok || len(entry.Records) != 1 {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.rounds.Remove(roundID)
		return nil, false
	}
	rec := entry.Records[0]
	return &rec, true
}

func (c *recordCache) setRound(record domain.RoundRecord) {
	c.rounds.Add(record.RoundID, &cachedEntry{
		Version:  CacheSchemaVersion,
		Records:  []domain.RoundRecord{record},
		CachedAt: time.Now(),
	})
}

func (c *recordCache) invalidatePages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.pages.Purge()
}
