package memory

import "holma/pkg/domain"

// relationSet stores the pairs of one relation kind. pairs keeps insertion
// order; forward and reverse index it by endpoint.
type relationSet struct {
	pairs   []domain.Link
	forward map[int64][]int64
	reverse map[int64][]int64
}

func newRelationSet() *relationSet {
	return &relationSet{
		forward: make(map[int64][]int64),
		reverse: make(map[int64][]int64),
	}
}

func relationSetFromLinks(links []domain.Link) *relationSet {
	set := newRelationSet()
	for _, l := range links {
		set.link(l.From, l.To)
	}
	return set
}

func (r *relationSet) clone() *relationSet {
	out := &relationSet{
		pairs:   append([]domain.Link(nil), r.pairs...),
		forward: make(map[int64][]int64, len(r.forward)),
		reverse: make(map[int64][]int64, len(r.reverse)),
	}
	for k, v := range r.forward {
		out.forward[k] = append([]int64(nil), v...)
	}
	for k, v := range r.reverse {
		out.reverse[k] = append([]int64(nil), v...)
	}
	return out
}

func (r *relationSet) has(from, to int64) bool {
	return containsID(r.forward[from], to)
}

func (r *relationSet) link(from, to int64) {
	if r.has(from, to) {
		return
	}
	r.pairs = append(r.pairs, domain.Link{From: from, To: to})
	r.forward[from] = append(r.forward[from], to)
	r.reverse[to] = append(r.reverse[to], from)
}

func (r *relationSet) unlink(from, to int64) {
	if !r.has(from, to) {
		return
	}
	for i, p := range r.pairs {
		if p.From == from && p.To == to {
			r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
			break
		}
	}
	setOrDelete(r.forward, from, removeID(r.forward[from], to))
	setOrDelete(r.reverse, to, removeID(r.reverse[to], from))
}

// unlinkFrom drops every pair whose from side is id.
func (r *relationSet) unlinkFrom(id int64) {
	for _, to := range append([]int64(nil), r.forward[id]...) {
		r.unlink(id, to)
	}
}

// unlinkTo drops every pair whose to side is id.
func (r *relationSet) unlinkTo(id int64) {
	for _, from := range append([]int64(nil), r.reverse[id]...) {
		r.unlink(from, id)
	}
}

func (r *relationSet) related(from int64) []int64 {
	return append([]int64(nil), r.forward[from]...)
}

func (r *relationSet) referrers(to int64) []int64 {
	return append([]int64(nil), r.reverse[to]...)
}

func (r *relationSet) links() []domain.Link {
	return append([]domain.Link(nil), r.pairs...)
}

func containsID(values []int64, id int64) bool {
	for _, v := range values {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(values []int64, id int64) []int64 {
	out := values[:0]
	for _, v := range values {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func setOrDelete(index map[int64][]int64, key int64, values []int64) {
	if len(values) == 0 {
		delete(index, key)
		return
	}
	index[key] = values
}
