package codetree

import "sync"

// BranchCache remembers the default branch of each owner/name pair for the lifetime
// of the process. The first stored value for a key wins; it is never invalidated.
type BranchCache interface {
	Get(key string) (string, bool)
	// SetIfAbsent stores branch unless key already has a value, and returns the stored value.
	SetIfAbsent(key, branch string) string
}

// NewBranchCache returns an empty, concurrency safe BranchCache.
func NewBranchCache() BranchCache {
	return &branchCache{}
}

type branchCache struct {
	m sync.Map
}

func (c *branchCache) Get(key string) (string, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c *branchCache) SetIfAbsent(key, branch string) string {
	v, _ := c.m.LoadOrStore(key, branch)
	return v.(string)
}
