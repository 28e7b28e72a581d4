package matchset

import "strings"

// Matcher is the uniform query interface the membership set streams its
// elements through. The concrete matchers below form a small closed
// algebra: two leaf matchers over a target fragment, an exact-string leaf,
// and the three combinators that compose them.
type Matcher interface {
	// Match reports whether the matcher accepts s.
	Match(s string) bool
}

// Subsequence accepts any string containing target's characters in order,
// not necessarily contiguous. This is the fuzzy recall pass: "prfoo"
// accepts "/home/u/projects/foo".
func Subsequence(target string) Matcher {
	return subsequenceMatcher{target: []rune(target)}
}

// Substring accepts any string containing target as a contiguous,
// case-insensitive run.
func Substring(target string) Matcher {
	return substringMatcher{lower: strings.ToLower(target)}
}

// Exact accepts only the target string itself, byte for byte.
func Exact(target string) Matcher {
	return exactMatcher{target: target}
}

// Union accepts a string when either operand accepts it.
func Union(a, b Matcher) Matcher {
	return unionMatcher{a: a, b: b}
}

// Intersect accepts a string only when both operands accept it.
func Intersect(a, b Matcher) Matcher {
	return intersectMatcher{a: a, b: b}
}

// Complement inverts a matcher.
func Complement(m Matcher) Matcher {
	return complementMatcher{m: m}
}

type subsequenceMatcher struct {
	target []rune
}

func (m subsequenceMatcher) Match(s string) bool {
	if len(m.target) == 0 {
		return true
	}
	i := 0
	for _, r := range s {
		if r == m.target[i] {
			i++
			if i == len(m.target) {
				return true
			}
		}
	}
	return false
}

type substringMatcher struct {
	lower string
}

func (m substringMatcher) Match(s string) bool {
	return strings.Contains(strings.ToLower(s), m.lower)
}

type exactMatcher struct {
	target string
}

func (m exactMatcher) Match(s string) bool {
	return s == m.target
}

type unionMatcher struct {
	a, b Matcher
}

func (m unionMatcher) Match(s string) bool {
	return m.a.Match(s) || m.b.Match(s)
}

type intersectMatcher struct {
	a, b Matcher
}

func (m intersectMatcher) Match(s string) bool {
	return m.a.Match(s) && m.b.Match(s)
}

type complementMatcher struct {
	m Matcher
}

func (m complementMatcher) Match(s string) bool {
	return !m.m.Match(s)
}
