// Package sets provides a small generic set type used by the graph layers.
package sets

// Set is an unordered collection of unique elements.
type Set[T comparable] map[T]struct{}

// New creates a set containing the given elements.
func New[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts an element into the set.
func (s Set[T]) Add(e T) {
	s[e] = struct{}{}
}

// Has reports whether the element is in the set.
func (s Set[T]) Has(e T) bool {
	_, ok := s[e]
	return ok
}

// Delete removes an element from the set, if present.
func (s Set[T]) Delete(e T) {
	delete(s, e)
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

// Values returns the elements of the set in unspecified order.
func (s Set[T]) Values() []T {
	out := make([]T, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}

// Clone returns a shallow copy of the set.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	return out
}

// Union returns a new set with the elements of both s and other.
func (s Set[T]) Union(other Set[T]) Set[T] {
	out := s.Clone()
	for e := range other {
		out[e] = struct{}{}
	}
	return out
}

// Intersect returns a new set with the elements present in both s and other.
func (s Set[T]) Intersect(other Set[T]) Set[T] {
	out := make(Set[T])
	for e := range s {
		if other.Has(e) {
			out[e] = struct{}{}
		}
	}
	return out
}

// Diff returns a new set with the elements of s that are not in other.
func (s Set[T]) Diff(other Set[T]) Set[T] {
	out := make(Set[T])
	for e := range s {
		if !other.Has(e) {
			out[e] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets contain exactly the same elements.
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Has(e) {
			return false
		}
	}
	return true
}
