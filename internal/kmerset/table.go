package kmerset

import (
	"iter"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

const minSlots = 16

// Table is an open-addressing hash set with linear probing. Deletion
// shifts later members of the probe run back, so there are no tombstones
// and lookups stay short after heavy subtraction.
type Table struct {
	slots []Entry
	used  *bitset.BitSet
	mask  uint64
	n     int
}

var (
	_ Set     = (*Table)(nil)
	_ Counter = (*Table)(nil)
)

// NewTable returns a table sized for about capacity entries.
func NewTable(capacity int) *Table {
	size := minSlots
	if want := capacity * 4 / 3; want > size {
		size = 1 << bits.Len(uint(want-1))
	}
	return &Table{
		slots: make([]Entry, size),
		used:  bitset.New(uint(size)),
		mask:  uint64(size - 1),
	}
}

// find returns the slot holding key, or the empty slot where it belongs.
func (t *Table) find(key uint64) (uint64, bool) {
	i := hash(key) & t.mask
	for t.used.Test(uint(i)) {
		if t.slots[i].Key == key {
			return i, true
		}
		i = (i + 1) & t.mask
	}
	return i, false
}

func (t *Table) Prepare(key uint64) (*Entry, bool) {
	if (t.n+1)*4 > len(t.slots)*3 {
		t.grow()
	}
	i, ok := t.find(key)
	if !ok {
		t.used.Set(uint(i))
		t.slots[i] = Entry{Key: key}
		t.n++
	}
	return &t.slots[i], ok
}

func (t *Table) Get(key uint64) (Entry, bool) {
	i, ok := t.find(key)
	if !ok {
		return Entry{}, false
	}
	return t.slots[i], true
}

func (t *Table) Incr(key uint64) bool { return Increment(t, key) }

func (t *Table) Remove(key uint64) int {
	i, ok := t.find(key)
	if !ok {
		return 0
	}
	// Backward-shift: walk the rest of the run and pull back every entry
	// whose home slot does not lie between the hole and its position.
	j := i
	for {
		j = (j + 1) & t.mask
		if !t.used.Test(uint(j)) {
			break
		}
		home := hash(t.slots[j].Key) & t.mask
		if (j-home)&t.mask >= (j-i)&t.mask {
			t.slots[i] = t.slots[j]
			i = j
		}
	}
	t.used.Clear(uint(i))
	t.slots[i] = Entry{}
	t.n--
	return 1
}

func (t *Table) Len() int { return t.n }

func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i, ok := t.used.NextSet(0); ok; i, ok = t.used.NextSet(i + 1) {
			if !yield(t.slots[i]) {
				return
			}
		}
	}
}

func (t *Table) grow() {
	old, oldUsed := t.slots, t.used
	size := len(old) * 2
	t.slots = make([]Entry, size)
	t.used = bitset.New(uint(size))
	t.mask = uint64(size - 1)
	for i, ok := oldUsed.NextSet(0); ok; i, ok = oldUsed.NextSet(i + 1) {
		j, _ := t.find(old[i].Key)
		t.used.Set(uint(j))
		t.slots[j] = old[i]
	}
}
