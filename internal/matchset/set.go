// Package matchset maintains the membership index: an immutable, sorted,
// deduplicated set of path strings serialized as a finite-state transducer,
// plus the matcher algebra queries are composed from.
//
// A Set is never mutated in place. Every structural change builds a fresh
// set by streaming the existing one and a delta set through an ordered
// merge, so the persisted blob is always a complete, self-contained image.
package matchset

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blevesearch/vellum"
)

// Combinator selects how Rebuild combines the existing set with the delta.
type Combinator int

const (
	// CombineUnion keeps elements present in either input.
	CombineUnion Combinator = iota
	// CombineDifference keeps elements of the existing set absent from the delta.
	CombineDifference
)

// Set is an immutable string set backed by a serialized FST. The zero
// value (and Empty()) is the valid empty set.
type Set struct {
	fst  *vellum.FST
	data []byte
}

// Empty returns the empty set.
func Empty() *Set {
	return &Set{}
}

// Load opens a set from its serialized form. A nil or zero-length blob is
// the empty set.
func Load(data []byte) (*Set, error) {
	if len(data) == 0 {
		return &Set{}, nil
	}
	fst, err := vellum.Load(data)
	if err != nil {
		return nil, fmt.Errorf("matchset: load set: %w", err)
	}
	return &Set{fst: fst, data: data}, nil
}

// FromStrings builds a set from elems, which must already be in ascending
// byte order with no duplicates. Out-of-order input is a construction
// error, not a condition the builder papers over.
func FromStrings(elems []string) (*Set, error) {
	return build(func(insert func(string) error) error {
		for _, e := range elems {
			if err := insert(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// Bytes returns the serialized form of the set. The empty set serializes
// to nil.
func (s *Set) Bytes() []byte {
	return s.data
}

// Len returns the number of elements.
func (s *Set) Len() int {
	if s.fst == nil {
		return 0
	}
	return s.fst.Len()
}

// Contains reports whether elem is a member.
func (s *Set) Contains(elem string) (bool, error) {
	if s.fst == nil {
		return false, nil
	}
	_, ok, err := s.fst.Get([]byte(elem))
	if err != nil {
		return false, fmt.Errorf("matchset: contains: %w", err)
	}
	return ok, nil
}

// Elements returns every member in ascending order.
func (s *Set) Elements() ([]string, error) {
	var out []string
	err := s.stream(func(elem string) error {
		out = append(out, elem)
		return nil
	})
	return out, err
}

// Search streams the set in ascending order and returns every element the
// matcher accepts, in stream order.
func (s *Set) Search(m Matcher) ([]string, error) {
	var out []string
	err := s.stream(func(elem string) error {
		if m.Match(elem) {
			out = append(out, elem)
		}
		return nil
	})
	return out, err
}

// Rebuild combines existing and delta into a freshly built set. Both
// inputs stream in ascending order and the merge preserves that order, so
// the builder never sees an out-of-order key.
func Rebuild(existing, delta *Set, op Combinator) (*Set, error) {
	a, err := newCursor(existing)
	if err != nil {
		return nil, err
	}
	b, err := newCursor(delta)
	if err != nil {
		return nil, err
	}

	switch op {
	case CombineUnion:
		return build(func(insert func(string) error) error {
			return mergeUnion(a, b, insert)
		})
	case CombineDifference:
		return build(func(insert func(string) error) error {
			return mergeDifference(a, b, insert)
		})
	default:
		return nil, fmt.Errorf("matchset: unknown combinator %d", op)
	}
}

func mergeUnion(a, b *cursor, insert func(string) error) error {
	for !a.done || !b.done {
		var elem string
		switch {
		case a.done:
			elem = b.cur
			if err := b.next(); err != nil {
				return err
			}
		case b.done:
			elem = a.cur
			if err := a.next(); err != nil {
				return err
			}
		case a.cur < b.cur:
			elem = a.cur
			if err := a.next(); err != nil {
				return err
			}
		case a.cur > b.cur:
			elem = b.cur
			if err := b.next(); err != nil {
				return err
			}
		default:
			elem = a.cur
			if err := a.next(); err != nil {
				return err
			}
			if err := b.next(); err != nil {
				return err
			}
		}
		if err := insert(elem); err != nil {
			return err
		}
	}
	return nil
}

func mergeDifference(a, b *cursor, insert func(string) error) error {
	for !a.done {
		switch {
		case b.done, a.cur < b.cur:
			if err := insert(a.cur); err != nil {
				return err
			}
			if err := a.next(); err != nil {
				return err
			}
		case a.cur > b.cur:
			if err := b.next(); err != nil {
				return err
			}
		default:
			if err := a.next(); err != nil {
				return err
			}
			if err := b.next(); err != nil {
				return err
			}
		}
	}
	return nil
}

// build runs fill against a fresh FST builder and loads the result. When
// fill inserts nothing the empty set is returned without serializing.
func build(fill func(insert func(string) error) error) (*Set, error) {
	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("matchset: new builder: %w", err)
	}

	count := 0
	insert := func(elem string) error {
		if err := builder.Insert([]byte(elem), 0); err != nil {
			return fmt.Errorf("matchset: insert %q: %w", elem, err)
		}
		count++
		return nil
	}
	if err := fill(insert); err != nil {
		return nil, err
	}
	if count == 0 {
		return &Set{}, nil
	}
	if err := builder.Close(); err != nil {
		return nil, fmt.Errorf("matchset: finish builder: %w", err)
	}
	return Load(buf.Bytes())
}

// cursor is a pull-based view over a set's ascending element stream.
type cursor struct {
	itr  *vellum.FSTIterator
	cur  string
	done bool
}

func newCursor(s *Set) (*cursor, error) {
	if s == nil || s.fst == nil {
		return &cursor{done: true}, nil
	}
	itr, err := s.fst.Iterator(nil, nil)
	if errors.Is(err, vellum.ErrIteratorDone) {
		return &cursor{done: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matchset: open iterator: %w", err)
	}
	key, _ := itr.Current()
	return &cursor{itr: itr, cur: string(key)}, nil
}

func (c *cursor) next() error {
	err := c.itr.Next()
	if errors.Is(err, vellum.ErrIteratorDone) {
		c.done = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("matchset: advance iterator: %w", err)
	}
	key, _ := c.itr.Current()
	c.cur = string(key)
	return nil
}

func (s *Set) stream(fn func(string) error) error {
	c, err := newCursor(s)
	if err != nil {
		return err
	}
	for !c.done {
		if err := fn(c.cur); err != nil {
			return err
		}
		if err := c.next(); err != nil {
			return err
		}
	}
	return nil
}
