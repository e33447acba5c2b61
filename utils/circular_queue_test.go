package utils

import (
	"slices"
	"testing"

	"github.com/elliotchance/orderedmap/v2"
)

func TestCircularQueueOverwritesOldest(t *testing.T) {
	q := NewCircularQueue[int](3)
	for i := 1; i <= 5; i++ {
		q.Append(i)
	}
	if !q.Full() || q.Len() != 3 {
		t.Fatalf("expected full queue of 3, got len %d", q.Len())
	}
	if got := q.Values(); !slices.Equal(got, []int{3, 4, 5}) {
		t.Fatalf("expected [3 4 5], got %v", got)
	}

	item, ok := q.Pop()
	if !ok || item != 3 {
		t.Fatalf("expected to pop 3, got %d (ok=%v)", item, ok)
	}
	q.Append(6)
	if got := q.Values(); !slices.Equal(got, []int{4, 5, 6}) {
		t.Fatalf("expected [4 5 6], got %v", got)
	}
}

func TestCircularQueuePopEmpty(t *testing.T) {
	q := NewCircularQueue[string](1)
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected empty pop to fail")
	}
}

func TestOrderedMapToString(t *testing.T) {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("body", 3)
	m.Set("grounded", true)
	if got := OrderedMapToString(m); got != "[body=3 grounded=true]" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := OrderedMapToString(nil); got != "[]" {
		t.Fatalf("unexpected string for nil map %q", got)
	}
}
