// Package kmerset holds canonical k-mer codes with saturating occurrence
// counters.
//
// Identity is the key alone; the counter is payload. Counters stop at
// MaxCount instead of wrapping, so very abundant k-mers are undercounted
// but never reset.
package kmerset

import "iter"

// MaxCount is the counter ceiling. It matches the 12-bit field the
// counter was historically packed into next to the key.
const MaxCount = 3071

// Entry is one k-mer and its count.
type Entry struct {
	Key   uint64
	Count uint16
}

// Incr adds one to the count unless it already sits at MaxCount.
func (e *Entry) Incr() {
	e.Count = min(e.Count+1, MaxCount)
}

// Set is the single-threaded contract. Handles returned by Prepare stay
// valid only until the next Prepare or Remove.
type Set interface {
	Prepare(key uint64) (e *Entry, existed bool)
	Get(key uint64) (Entry, bool)
	Remove(key uint64) int
	Len() int
	// All yields every entry once. The set must not be modified while
	// the sequence is being consumed.
	All() iter.Seq[Entry]
}

// Counter is what the filtering phases need. Unlike Set it never hands
// out pointers, so implementations may guard it with locks.
type Counter interface {
	Incr(key uint64) (existed bool)
	Remove(key uint64) int
	Get(key uint64) (Entry, bool)
	Len() int
	All() iter.Seq[Entry]
}

// Increment records one occurrence of key in s: a new entry starts at 1,
// an existing one is incremented with saturation.
func Increment(s Set, key uint64) (existed bool) {
	e, existed := s.Prepare(key)
	if existed {
		e.Incr()
	} else {
		e.Count = 1
	}
	return existed
}

// hash is the splitmix64 finalizer; k-mer codes are far from uniform in
// their low bits, so they are mixed before masking.
func hash(key uint64) uint64 {
	key ^= key >> 30
	key *= 0xbf58476d1ce4e5b9
	key ^= key >> 27
	key *= 0x94d049bb133111eb
	key ^= key >> 31
	return key
}
