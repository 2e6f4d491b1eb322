package kmerset

import (
	"iter"
	"math/bits"
	"sync"
)

// Sharded spreads keys over independently locked Tables so several
// goroutines can count or subtract at once. The shard is picked from the
// high bits of the hash; the table inside uses the low bits.
type Sharded struct {
	shards []shard
	shift  uint
}

type shard struct {
	mu sync.Mutex
	t  *Table
	_  [64 - 16]byte // one shard per cache line
}

var _ Counter = (*Sharded)(nil)

// NewSharded returns a set with at least n shards (rounded up to a power
// of two) sized for about capacity entries in total.
func NewSharded(n, capacity int) *Sharded {
	if n < 1 {
		n = 1
	}
	lg := bits.Len(uint(n - 1))
	n = 1 << lg
	s := &Sharded{
		shards: make([]shard, n),
		shift:  uint(64 - lg),
	}
	for i := range s.shards {
		s.shards[i].t = NewTable(capacity / n)
	}
	return s
}

func (s *Sharded) shardFor(key uint64) *shard {
	if len(s.shards) == 1 {
		return &s.shards[0]
	}
	return &s.shards[hash(key)>>s.shift]
}

func (s *Sharded) Incr(key uint64) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	existed := Increment(sh.t, key)
	sh.mu.Unlock()
	return existed
}

func (s *Sharded) Remove(key uint64) int {
	sh := s.shardFor(key)
	sh.mu.Lock()
	n := sh.t.Remove(key)
	sh.mu.Unlock()
	return n
}

func (s *Sharded) Get(key uint64) (Entry, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	e, ok := sh.t.Get(key)
	sh.mu.Unlock()
	return e, ok
}

func (s *Sharded) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += sh.t.Len()
		sh.mu.Unlock()
	}
	return n
}

// All walks the shards in order without locking; it must not overlap
// with Incr or Remove.
func (s *Sharded) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range s.shards {
			for e := range s.shards[i].t.All() {
				if !yield(e) {
					return
				}
			}
		}
	}
}
