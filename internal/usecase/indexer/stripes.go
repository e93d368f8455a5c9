package indexer

import (
	"hash/fnv"
	"sync"
)

const defaultStripes = 64

// stripes serializes work per key over a fixed set of mutexes.
type stripes struct {
	mu []sync.Mutex
}

func newStripes(n int) *stripes {
	if n <= 0 {
		n = defaultStripes
	}
	return &stripes{mu: make([]sync.Mutex, n)}
}

func (s *stripes) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &s.mu[h.Sum32()%uint32(len(s.mu))]
	m.Lock()
	return m.Unlock
}
