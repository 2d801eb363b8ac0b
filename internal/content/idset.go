package content

import "sort"

// IDSet is an immutable set of ids. Union returns a new set and never
// modifies the receiver, so a set only ever grows across updates.
type IDSet struct {
	m map[string]struct{}
}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	return IDSet{}.Union(ids...)
}

// Union returns a set holding the receiver's ids plus ids.
func (s IDSet) Union(ids ...string) IDSet {
	m := make(map[string]struct{}, len(s.m)+len(ids))
	for id := range s.m {
		m[id] = struct{}{}
	}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return IDSet{m: m}
}

func (s IDSet) Has(id string) bool {
	_, ok := s.m[id]
	return ok
}

func (s IDSet) Len() int { return len(s.m) }

// Covers reports whether every id is in the set. An empty list is never
// covered.
func (s IDSet) Covers(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ItemCompleted reports whether every question of it has been solved.
func (s IDSet) ItemCompleted(it Item) bool {
	qs := it.Questions()
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return s.Covers(ids)
}
