package catalog

// DefaultCapacity is the bucket count used when none is configured.
// A prime keeps the 31-multiplier hash from clustering on common prefixes.
const DefaultCapacity = 179

// hashMultiplier is the polynomial base of the rolling hash.
const hashMultiplier = 31

// Table maps canonical course ids to courses using separate chaining.
//
// The bucket count is fixed for the lifetime of the table. A Table is not
// safe for concurrent use; callers that share one must serialize access.
type Table struct {
	capacity int
	buckets  [][]Course
	size     int
}

// NewTable creates an empty table with the given bucket count.
// A non-positive capacity falls back to DefaultCapacity.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{
		capacity: capacity,
		buckets:  make([][]Course, capacity),
	}
}

// Capacity returns the fixed bucket count.
func (t *Table) Capacity() int {
	return t.capacity
}

// Len returns the number of distinct ids stored.
func (t *Table) Len() int {
	return t.size
}

// Bucket returns the bucket index for key.
// Each byte is folded in as h = (h*31 + b) mod capacity.
func (t *Table) Bucket(key string) int {
	h := 0
	for i := 0; i < len(key); i++ {
		h = (h*hashMultiplier + int(key[i])) % t.capacity
	}
	if h < 0 {
		h += t.capacity
	}
	return h
}

// Insert stores c, replacing the stored record when c.ID is already present.
// The table keeps its own copy of the prerequisite list.
func (t *Table) Insert(c Course) {
	c = c.Clone()
	idx := t.Bucket(c.ID)

	chain := t.buckets[idx]
	for i := range chain {
		if chain[i].ID == c.ID {
			chain[i] = c
			return
		}
	}

	t.buckets[idx] = append(chain, c)
	t.size++
}

// Find returns a copy of the course stored under id.
// Matching is exact; pass ids through CanonicalID first.
func (t *Table) Find(id string) (Course, bool) {
	for _, c := range t.buckets[t.Bucket(id)] {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return Course{}, false
}

// All returns a snapshot of every stored course in bucket order, then
// insertion order within a bucket. The result is not sorted.
func (t *Table) All() []Course {
	all := make([]Course, 0, t.size)
	for _, chain := range t.buckets {
		for _, c := range chain {
			all = append(all, c.Clone())
		}
	}
	return all
}

// Reset drops every stored course. The bucket count is unchanged.
func (t *Table) Reset() {
	t.buckets = make([][]Course, t.capacity)
	t.size = 0
}
