package matchset

import (
	"reflect"
	"testing"
)

func mustSet(t *testing.T, elems ...string) *Set {
	t.Helper()
	s, err := FromStrings(elems)
	if err != nil {
		t.Fatalf("FromStrings(%v): %v", elems, err)
	}
	return s
}

func elements(t *testing.T, s *Set) []string {
	t.Helper()
	out, err := s.Elements()
	if err != nil {
		t.Fatalf("Elements: %v", err)
	}
	return out
}

func TestUnionBothEmpty(t *testing.T) {
	result, err := Rebuild(Empty(), Empty(), CombineUnion)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Len() != 0 {
		t.Errorf("expected empty set, got %d elements", result.Len())
	}
}

func TestUnionOneEmpty(t *testing.T) {
	delta := mustSet(t, "bar", "foo")

	result, err := Rebuild(Empty(), delta, CombineUnion)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := elements(t, result); !reflect.DeepEqual(got, []string{"bar", "foo"}) {
		t.Errorf("expected [bar foo], got %v", got)
	}
}

func TestUnionNoEmpty(t *testing.T) {
	existing := mustSet(t, "abc", "def")
	delta := mustSet(t, "bar", "foo")

	result, err := Rebuild(existing, delta, CombineUnion)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := elements(t, result); !reflect.DeepEqual(got, []string{"abc", "bar", "def", "foo"}) {
		t.Errorf("expected sorted union, got %v", got)
	}
}

func TestUnionOverlapDeduplicates(t *testing.T) {
	existing := mustSet(t, "abc", "def")
	delta := mustSet(t, "abc")

	result, err := Rebuild(existing, delta, CombineUnion)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Len() != 2 {
		t.Errorf("expected 2 elements, got %d", result.Len())
	}
}

func TestDifferenceBothEmpty(t *testing.T) {
	result, err := Rebuild(Empty(), Empty(), CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Len() != 0 {
		t.Errorf("expected empty set, got %d elements", result.Len())
	}
}

func TestDifferenceSecondEmpty(t *testing.T) {
	existing := mustSet(t, "bar", "foo")

	result, err := Rebuild(existing, Empty(), CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := elements(t, result); !reflect.DeepEqual(got, []string{"bar", "foo"}) {
		t.Errorf("expected unchanged set, got %v", got)
	}
}

func TestDifferenceFirstEmpty(t *testing.T) {
	delta := mustSet(t, "bar", "foo")

	result, err := Rebuild(Empty(), delta, CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Len() != 0 {
		t.Errorf("expected empty set, got %d elements", result.Len())
	}
}

func TestDifferenceNoOverlap(t *testing.T) {
	existing := mustSet(t, "abc", "def")
	delta := mustSet(t, "bar", "foo")

	result, err := Rebuild(existing, delta, CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := elements(t, result); !reflect.DeepEqual(got, []string{"abc", "def"}) {
		t.Errorf("expected unchanged set, got %v", got)
	}
}

func TestDifferenceSomeOverlap(t *testing.T) {
	existing := mustSet(t, "abc", "def")
	delta := mustSet(t, "abc")

	result, err := Rebuild(existing, delta, CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := elements(t, result); !reflect.DeepEqual(got, []string{"def"}) {
		t.Errorf("expected [def], got %v", got)
	}
}

func TestDifferenceFullOverlap(t *testing.T) {
	existing := mustSet(t, "abc", "def")
	delta := mustSet(t, "abc", "def")

	result, err := Rebuild(existing, delta, CombineDifference)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if result.Len() != 0 {
		t.Errorf("expected empty set, got %d elements", result.Len())
	}
}

func TestFromStringsOutOfOrderFails(t *testing.T) {
	if _, err := FromStrings([]string{"foo", "bar"}); err == nil {
		t.Error("out-of-order input must be a construction error")
	}
}

func TestSerializedRoundTrip(t *testing.T) {
	s := mustSet(t, "/a", "/b", "/c")

	loaded, err := Load(s.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := elements(t, loaded); !reflect.DeepEqual(got, []string{"/a", "/b", "/c"}) {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestEmptySetSerializesToNil(t *testing.T) {
	if Empty().Bytes() != nil {
		t.Error("empty set serializes to nil")
	}
	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if loaded.Len() != 0 {
		t.Errorf("expected empty set, got %d elements", loaded.Len())
	}
}

func TestContains(t *testing.T) {
	s := mustSet(t, "/a", "/b")

	ok, err := s.Contains("/a")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !ok {
		t.Error("expected membership for /a")
	}
	ok, err = s.Contains("/c")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if ok {
		t.Error("expected no membership for /c")
	}
}

func TestSearchStreamsInOrder(t *testing.T) {
	s := mustSet(t, "/home/a/widgets", "/home/b/gadgets", "/home/c/widgets")

	got, err := s.Search(Substring("widgets"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"/home/a/widgets", "/home/c/widgets"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
