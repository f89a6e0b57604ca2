package ot

import "testing"

func TestTransformInsertInsert(t *testing.T) {
	cases := []struct {
		name        string
		receiver    Operation
		base        Operation
		client      bool
		wantPos     int
		wantText    string
	}{
		{"receiver before", NewInsert(2, "x"), NewInsert(5, "y"), true, 2, "x"},
		{"receiver after", NewInsert(7, "x"), NewInsert(5, "y"), true, 8, "x"},
		{"tie client stays left", NewInsert(5, "x"), NewInsert(5, "y"), true, 5, "x"},
		{"tie server moves right", NewInsert(5, "x"), NewInsert(5, "y"), false, 6, "x"},
		// Differing text lengths on a tie distinguish "shift by receiver's
		// own |T|" (spec §4.3 / jupiter.cpp transform_insert) from "shift
		// by the concurrent insert's length" — the two rules agree when
		// both inserts are single characters, as above, so this case is
		// the one that actually pins down which rule is implemented.
		{"tie server moves right by receiver's own length", NewInsert(5, "abc"), NewInsert(5, "y"), false, 8, "abc"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.base.Transform(c.receiver, c.client)
			if got.Kind != KindInsert || got.Pos != c.wantPos || got.Text != c.wantText {
				t.Fatalf("got %+v, want pos=%d text=%q", got, c.wantPos, c.wantText)
			}
		})
	}
}

func TestTransformInsertDelete(t *testing.T) {
	// receiver Insert(5, "x") against delete(2, "ab") (p=2, n=2)
	del := NewDelete(2, "ab")
	got := del.Transform(NewInsert(5, "x"), true)
	if got.Kind != KindInsert || got.Pos != 3 {
		t.Fatalf("P > p+n case: got %+v, want pos=3", got)
	}

	// receiver Insert(1, "x") against delete(2, "ab"): P <= p
	got = del.Transform(NewInsert(1, "x"), true)
	if got.Kind != KindInsert || got.Pos != 1 {
		t.Fatalf("P <= p case: got %+v, want pos=1", got)
	}

	// receiver Insert(3, "x") against delete(2, "ab"): p < P <= p+n, collapse
	got = del.Transform(NewInsert(3, "x"), true)
	if got.Kind != KindInsert || got.Pos != 2 {
		t.Fatalf("collapse case: got %+v, want pos=2", got)
	}
}

func TestTransformDeleteInsertSplitBoundary(t *testing.T) {
	// receiver Delete(2, "abcd") (P=2, N=4), insert(6, "X") lands at P+N: boundary case.
	recv := NewDelete(2, "abcd")
	ins := NewInsert(6, "X")
	got := ins.Transform(recv, true)
	if got.Kind != KindSplit {
		t.Fatalf("boundary P+N=p must fall under the split case, got %+v", got)
	}
	if got.First.Pos != 2 || got.First.Text != "abcd" {
		t.Fatalf("first piece wrong: %+v", got.First)
	}
	if got.Second.Pos != 7 || got.Second.Text != "" {
		t.Fatalf("second piece wrong: %+v", got.Second)
	}
}

func TestTransformDeleteInsertMidSplit(t *testing.T) {
	// Delete(2, "abcd"), insert(4, "XY") lands in the middle.
	recv := NewDelete(2, "abcd")
	ins := NewInsert(4, "XY")
	got := ins.Transform(recv, true)
	if got.Kind != KindSplit {
		t.Fatalf("want split, got %+v", got)
	}
	if got.First.Pos != 2 || got.First.Text != "ab" {
		t.Fatalf("first piece: %+v", got.First)
	}
	if got.Second.Pos != 6 || got.Second.Text != "cd" {
		t.Fatalf("second piece: %+v", got.Second)
	}
}

func TestTransformDeleteDelete(t *testing.T) {
	// Disjoint left: P+N < p
	recv := NewDelete(0, "ab")
	got := NewDelete(5, "xy").Transform(recv, true)
	if got.Kind != KindDelete || got.Pos != 0 || got.Text != "ab" {
		t.Fatalf("disjoint left: %+v", got)
	}

	// Disjoint right: P >= p+n
	recv = NewDelete(10, "ab")
	got = NewDelete(2, "xy").Transform(recv, true)
	if got.Kind != KindDelete || got.Pos != 8 {
		t.Fatalf("disjoint right: %+v", got)
	}

	// Entirely subsumed: p <= P, p+n >= P+N
	recv = NewDelete(3, "ab")
	got = NewDelete(0, "abcdef").Transform(recv, true)
	if got.Kind != KindNoOp {
		t.Fatalf("subsumed: want NoOp, got %+v", got)
	}

	// Left subsumed
	recv = NewDelete(3, "abcd")
	got = NewDelete(2, "xa").Transform(recv, true) // p=2,n=2 -> p<=P(3), p+n=4 < P+N=7
	if got.Kind != KindDelete || got.Pos != 2 || got.Text != "bcd" {
		t.Fatalf("left subsumed: %+v", got)
	}

	// Right subsumed
	recv = NewDelete(0, "abcdef") // P=0 N=6
	got = NewDelete(4, "efg").Transform(recv, true) // p=4,n=3: p>P, p+n=7>=P+N=6
	if got.Kind != KindDelete || got.Pos != 0 || got.Text != "abcd" {
		t.Fatalf("right subsumed: %+v", got)
	}

	// Middle subsumed
	recv = NewDelete(0, "abcdefgh") // P=0 N=8
	got = NewDelete(2, "cd").Transform(recv, true) // p=2,n=2: P<p<p+n<P+N
	if got.Kind != KindDelete || got.Pos != 0 || got.Text != "ab"+"efgh" {
		t.Fatalf("middle subsumed: %+v", got)
	}
}

func TestTransformSplitReceiver(t *testing.T) {
	split := newSplit(NewInsert(0, "a"), NewInsert(10, "b"))
	got := NewInsert(0, "x").Transform(split, true)
	if got.Kind != KindSplit {
		t.Fatalf("want split passthrough, got %+v", got)
	}
}
