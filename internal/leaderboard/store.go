package leaderboard

import (
	"sync"
	"sync/atomic"
	"time"

	"mixd/internal/models"
	"mixd/internal/providers"
	"mixd/internal/structures"
)

// Timestamps are stored the way the collection has always carried them:
// UTC ISO-8601 with a trailing literal "Z".
const timeLayout = "2006-01-02T15:04:05.000000Z"

type StoreInterface interface {
	TopCombos(n int) []models.Combo
	RegisterVote(comboID string) bool
	Append(combo models.Combo) bool
	Snapshot() []models.Combo
	Count() int
	TotalVotes() int
	Generation() uint64
	ClearCache()
}

// cacheSlot is the single-slot memo of the last computed ranking. It is
// owned by the store instance, never process-global, so independent stores
// (and tests) cannot contaminate each other.
type cacheSlot struct {
	ranked []models.Combo
	at     time.Time
	valid  bool
}

// Store is the file-backed leaderboard. Every operation works on the whole
// collection in memory, which is fine at the record counts this service
// sees. The mutex serializes callers within this process; two processes
// writing the same file can still lose an increment to each other — an
// accepted weakness of the single-file design under low write concurrency.
type Store struct {
	path   string
	window time.Duration
	fm     *FileManager
	logger providers.Logger

	mu    sync.Mutex
	cache cacheSlot
	gen   atomic.Uint64

	now func() time.Time
}

func NewStore(conf *structures.Config, fm *FileManager, logger providers.Logger) *Store {
	return &Store{
		path:   conf.Store.FilePath,
		window: conf.Store.CacheWindow,
		fm:     fm,
		logger: logger,
		now:    time.Now,
	}
}

// TopCombos returns the n highest-voted combos, ties broken by earlier
// created_at. Within the freshness window the cached ranking is served
// without touching disk; a request larger than the cached list returns
// what is cached.
func (s *Store) TopCombos(n int) []models.Combo {
	if n <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.valid && s.now().Sub(s.cache.at) < s.window {
		return rankedCopy(s.cache.ranked, n)
	}

	combos := s.fm.Load(s.path)
	models.SortByRank(combos)
	s.cache = cacheSlot{ranked: combos, at: s.now(), valid: true}
	return rankedCopy(combos, n)
}

// RegisterVote increments the vote count of the first combo whose id or
// name matches comboID (case-insensitive, whitespace-trimmed) and persists
// the whole collection. Returns false without touching the file when the
// id is empty, nothing matches, or the write fails.
func (s *Store) RegisterVote(comboID string) bool {
	key := models.NormalizeKey(comboID)
	if key == "" {
		s.logger.Warnf(providers.TypeApp, "Empty combo id provided for vote registration")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	combos := s.fm.Load(s.path)
	idx := -1
	for i := range combos {
		if combos[i].Matches(key) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Warnf(providers.TypeApp, "Combo not found for vote registration: %s", comboID)
		return false
	}

	combos[idx].Votes++
	combos[idx].LastVotedAt = s.now().UTC().Format(timeLayout)

	if err := s.fm.Save(s.path, combos); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to write vote for combo %s: %s", comboID, err)
		return false
	}

	s.invalidateLocked()
	s.logger.Infof(providers.TypeApp, "Vote registered for combo: %s (total votes: %d)", combos[idx].Name, combos[idx].Votes)
	return true
}

// Append adds a newly generated combo to the collection and persists it.
func (s *Store) Append(combo models.Combo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	combos := append(s.fm.Load(s.path), combo)
	if err := s.fm.Save(s.path, combos); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to append combo %s: %s", combo.ID, err)
		return false
	}

	s.invalidateLocked()
	return true
}

// Snapshot reads the full collection from disk, bypassing the cache.
func (s *Store) Snapshot() []models.Combo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fm.Load(s.path)
}

func (s *Store) Count() int {
	return len(s.Snapshot())
}

func (s *Store) TotalVotes() int {
	total := 0
	for _, c := range s.Snapshot() {
		total += c.Votes
	}
	return total
}

// Generation increases on every write and cache clear. Response caches key
// on it so a vote is visible immediately instead of after a TTL.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// ClearCache forces the next read to hit disk.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *Store) invalidateLocked() {
	s.cache = cacheSlot{}
	s.gen.Add(1)
}

func rankedCopy(ranked []models.Combo, n int) []models.Combo {
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]models.Combo, n)
	copy(out, ranked[:n])
	return out
}
