package qa

import (
	"crypto/sha256"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/repolens/pkg/types"
)

const (
	answerCacheSize = 100
	answerCacheTTL  = 10 * time.Minute
)

type cachedAnswer struct {
	answer    string
	context   *types.QuestionContext
	expiresAt time.Time
}

// answerCache memoizes completed answers. Keys bind the snapshot ID so
// a reloaded repository never serves answers from a previous analysis.
type answerCache struct {
	entries *lru.Cache[[32]byte, *cachedAnswer]
	mu      sync.RWMutex
	ttl     time.Duration
}

func newAnswerCache(size int, ttl time.Duration) *answerCache {
	if size <= 0 {
		size = answerCacheSize
	}
	if ttl <= 0 {
		ttl = answerCacheTTL
	}
	entries, err := lru.New[[32]byte, *cachedAnswer](size)
	if err != nil {
		entries, _ = lru.New[[32]byte, *cachedAnswer](answerCacheSize)
	}
	return &answerCache{entries: entries, ttl: ttl}
}

func answerKey(snapshotID, question string) [32]byte {
	return sha256.Sum256([]byte(snapshotID + "\n" + question))
}

func (c *answerCache) get(key [32]byte) (string, *types.QuestionContext, bool) {
	now := time.Now()

	c.mu.RLock()
	entry, found := c.entries.Get(key)
	if !found {
		c.mu.RUnlock()
		return "", nil, false
	}
	if now.After(entry.expiresAt) {
		c.mu.RUnlock()
		c.mu.Lock()
		c.entries.Remove(key)
		c.mu.Unlock()
		return "", nil, false
	}
	answer := entry.answer
	qctx := copyContext(entry.context)
	c.mu.RUnlock()

	return answer, qctx, true
}

func (c *answerCache) set(key [32]byte, answer string, qctx *types.QuestionContext) {
	entry := &cachedAnswer{
		answer:    answer,
		context:   copyContext(qctx),
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Lock()
	c.entries.Add(key, entry)
	c.mu.Unlock()
}

func (c *answerCache) purge() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}

// copyContext clones the slice headers so cached contexts cannot be
// grown or reordered through a caller's reference. Records themselves
// are shared; they are immutable once analysis returns.
func copyContext(src *types.QuestionContext) *types.QuestionContext {
	if src == nil {
		return nil
	}
	return &types.QuestionContext{
		Intent:     src.Intent,
		Files:      append([]*types.FileRecord(nil), src.Files...),
		Functions:  append([]types.FunctionRef(nil), src.Functions...),
		Classes:    append([]types.ClassRef(nil), src.Classes...),
		Components: append([]types.ComponentRecord(nil), src.Components...),
	}
}
