package rlreplay

import (
	"slices"
	"sort"
)

// netCacheEntry is one decoded class net cache record, before linking.
type netCacheEntry struct {
	classID       uint32
	parentCacheID uint32
	cacheID       uint32
	mapping       map[uint32]uint32
}

func decodeNetCacheEntries(c *Cursor) ([]netCacheEntry, error) {
	n, err := c.readCount(netCacheEntryWidth)
	if err != nil {
		return nil, err
	}
	entries := make([]netCacheEntry, n)
	for i := range entries {
		e := &entries[i]
		if e.classID, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
		if e.parentCacheID, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
		if e.cacheID, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
		pairs, err := c.readCount(mappingPairWidth)
		if err != nil {
			return nil, err
		}
		e.mapping = make(map[uint32]uint32, pairs)
		for j := 0; j < pairs; j++ {
			propertyIndex, err := c.ReadU32LE()
			if err != nil {
				return nil, err
			}
			mappedIndex, err := c.ReadU32LE()
			if err != nil {
				return nil, err
			}
			e.mapping[mappedIndex] = propertyIndex
		}
	}
	return entries, nil
}

// buildNetCacheTree links cache entries into a hierarchy and returns its root.
//
// The list is reversed, then every entry but the last is attached to the
// nearest following entry whose cache id equals its parent cache id. When no
// following entry matches, the sought id is decremented and the search retried,
// at most maxRetries times (zero means the number of distinct cache ids). The
// last entry of the reversed list is the root.
//
// Links are resolved over indices into the reversed slice. A node only ever
// links to a later index, so the result is acyclic. offset is reported in
// errors.
func buildNetCacheTree(entries []netCacheEntry, classes map[uint32]string, maxRetries, offset int) (*ClassNetCacheNode, error) {
	n := len(entries)
	if n == 0 {
		return nil, newDecodeError(ErrNetCacheTree, offset, "empty cache list")
	}
	rev := slices.Clone(entries)
	slices.Reverse(rev)

	ids := make([]uint32, 0, n)
	for _, e := range rev {
		ids = append(ids, e.cacheID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if maxRetries <= 0 {
		maxRetries = len(ids)
	}

	// Walk backwards so that, when entry i is linked, the index holds exactly
	// the entries after i, each id pointing at its nearest occurrence.
	idx := newCacheIndex(ids)
	parent := make([]int, n)
	parent[n-1] = -1
	idx.add(rev[n-1].cacheID, n-1)
	for i := n - 2; i >= 0; i-- {
		want := rev[i].parentCacheID
		got, pos, ok := idx.atOrBelow(want)
		if !ok {
			return nil, newDecodeError(ErrNetCacheTree, offset,
				"cache %d (class %d): no parent at or below cache id %d", rev[i].cacheID, rev[i].classID, want)
		}
		if uint64(want-got) > uint64(maxRetries) {
			return nil, newDecodeError(ErrNetCacheTree, offset,
				"cache %d (class %d): parent id %d not found within %d retries", rev[i].cacheID, rev[i].classID, want, maxRetries)
		}
		parent[i] = pos
		idx.add(rev[i].cacheID, i)
	}

	nodes := make([]*ClassNetCacheNode, n)
	for i, e := range rev {
		nodes[i] = &ClassNetCacheNode{
			ClassID:         e.classID,
			ClassName:       classes[e.classID],
			CacheID:         e.cacheID,
			ParentCacheID:   e.parentCacheID,
			PropertyMapping: e.mapping,
			Children:        []*ClassNetCacheNode{},
		}
	}
	for i := 0; i < n-1; i++ {
		p := nodes[parent[i]]
		p.Children = append(p.Children, nodes[i])
	}
	return nodes[n-1], nil
}

// cacheIndex answers "largest cache id <= x present after the current entry"
// using a Fenwick tree over the ranks of the distinct ids.
type cacheIndex struct {
	ids     []uint32 // distinct, ascending
	tree    []int
	nearest []int // by rank: smallest index added so far
}

func newCacheIndex(ids []uint32) *cacheIndex {
	nearest := make([]int, len(ids))
	for i := range nearest {
		nearest[i] = -1
	}
	return &cacheIndex{ids: ids, tree: make([]int, len(ids)+1), nearest: nearest}
}

func (x *cacheIndex) add(id uint32, pos int) {
	r := sort.Search(len(x.ids), func(k int) bool { return x.ids[k] >= id })
	if x.nearest[r] < 0 {
		for k := r + 1; k < len(x.tree); k += k & -k {
			x.tree[k]++
		}
	}
	x.nearest[r] = pos
}

func (x *cacheIndex) prefix(k int) int {
	sum := 0
	for ; k > 0; k -= k & -k {
		sum += x.tree[k]
	}
	return sum
}

// atOrBelow returns the largest present id <= want and its nearest index.
func (x *cacheIndex) atOrBelow(want uint32) (uint32, int, bool) {
	// number of distinct ids <= want
	r := sort.Search(len(x.ids), func(k int) bool { return x.ids[k] > want })
	count := x.prefix(r)
	if count == 0 {
		return 0, 0, false
	}
	// Find the count-th present rank by descending the tree.
	k, rem := 0, count
	for step := highBit(len(x.tree) - 1); step > 0; step >>= 1 {
		if k+step < len(x.tree) && x.tree[k+step] < rem {
			k += step
			rem -= x.tree[k]
		}
	}
	// k is the 1-based rank preceding the target, i.e. the 0-based target rank.
	return x.ids[k], x.nearest[k], true
}

func highBit(n int) int {
	b := 1
	for b<<1 <= n {
		b <<= 1
	}
	if n == 0 {
		return 0
	}
	return b
}
