package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/vitalsvoice/internal/logger"
)

// DefaultCacheEntries bounds the in-memory layer.
const DefaultCacheEntries = 256

// AudioCache keeps synthesized WAV audio in memory and, optionally, on
// disk. Entries are keyed on voice, rate, pitch and text.
//
// The disk layer is always read when cacheDir is set; it is written only
// when diskWrite is true. Memory evicts the oldest entry once full.
type AudioCache struct {
	log       *logger.Logger
	cacheDir  string
	diskWrite bool
	limit     int

	mu    sync.Mutex
	mem   map[string][]byte
	order []string // insertion order, oldest first

	hits   atomic.Int64
	misses atomic.Int64
}

// NewAudioCache creates an audio cache. An empty cacheDir disables the
// disk layer.
func NewAudioCache(cacheDir string, diskWrite bool, log *logger.Logger) *AudioCache {
	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: creating %s: %v", cacheDir, err)
		}
	}
	return &AudioCache{
		log:       log,
		cacheDir:  cacheDir,
		diskWrite: diskWrite,
		limit:     DefaultCacheEntries,
		mem:       make(map[string][]byte),
	}
}

// Get returns the cached audio for s, loading it from disk into memory
// when only the disk layer has it.
func (c *AudioCache) Get(s Synthesis) ([]byte, bool) {
	key := cacheKey(s)

	if audio, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.log.Debug("cache: mem hit %s", logger.Truncate(s.Text, 40))
		return audio, true
	}

	if audio, ok := c.load(key); ok {
		c.remember(key, audio)
		c.hits.Add(1)
		c.log.Debug("cache: disk hit %s", logger.Truncate(s.Text, 40))
		return audio, true
	}

	c.misses.Add(1)
	return nil, false
}

// Put caches audio for s.
func (c *AudioCache) Put(s Synthesis, audio []byte) {
	key := cacheKey(s)
	n := c.remember(key, audio)
	c.log.Debug("cache: stored %s (%d bytes, %d in memory)", logger.Truncate(s.Text, 40), len(audio), n)

	if c.cacheDir != "" && c.diskWrite {
		c.persist(key, audio)
	}
}

// Has reports whether s is cached in either layer, without counting a hit.
func (c *AudioCache) Has(s Synthesis) bool {
	key := cacheKey(s)
	if _, ok := c.lookup(key); ok {
		return true
	}
	if c.cacheDir == "" {
		return false
	}
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Len returns the number of entries held in memory.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mem)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *AudioCache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	audio, ok := c.mem[key]
	return audio, ok
}

// remember stores audio in memory, evicting the oldest entries past the
// limit, and returns the resulting size.
func (c *AudioCache) remember(key string, audio []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.mem[key]; !ok {
		c.order = append(c.order, key)
	}
	c.mem[key] = audio

	for c.limit > 0 && len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.mem, oldest)
	}
	return len(c.mem)
}

// ── disk ─────────────────────────────────────────────────────────

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func (c *AudioCache) load(key string) ([]byte, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	audio, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	return audio, true
}

// persist writes via a temp file and rename.
func (c *AudioCache) persist(key string, audio []byte) {
	tmp, err := os.CreateTemp(c.cacheDir, key+".*.tmp")
	if err != nil {
		c.log.Error("cache: disk write %s: %v", key[:12], err)
		return
	}
	_, err = tmp.Write(audio)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), c.path(key))
	}
	if err != nil {
		os.Remove(tmp.Name())
		c.log.Error("cache: disk write %s: %v", key[:12], err)
		return
	}
	c.log.Debug("cache: persisted %s (%d bytes)", key[:12], len(audio))
}

// cacheKey is the hex SHA-256 of the delivery and text.
func cacheKey(s Synthesis) string {
	raw := s.Voice + ":" +
		strconv.FormatFloat(s.Rate, 'f', 2, 64) + ":" +
		strconv.FormatFloat(s.Pitch, 'f', 2, 64) + ":" +
		s.Text
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
