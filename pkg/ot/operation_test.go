package ot

import "testing"

func TestGenerateOperationInsert(t *testing.T) {
	op := GenerateOperation("hello", "hello world")
	if op.Kind != KindInsert {
		t.Fatalf("want KindInsert, got %v", op.Kind)
	}
	if op.Pos != 5 || op.Text != " world" {
		t.Fatalf("got pos=%d text=%q", op.Pos, op.Text)
	}

	doc := NewDocument("hello")
	if err := op.Apply(doc); err != nil {
		t.Fatal(err)
	}
	if doc.String() != "hello world" {
		t.Fatalf("got %q", doc.String())
	}
}

func TestGenerateOperationDelete(t *testing.T) {
	op := GenerateOperation("hello world", "hello")
	if op.Kind != KindDelete {
		t.Fatalf("want KindDelete, got %v", op.Kind)
	}
	if op.Pos != 5 || op.Text != " world" {
		t.Fatalf("got pos=%d text=%q", op.Pos, op.Text)
	}
}

func TestGenerateOperationNoChange(t *testing.T) {
	op := GenerateOperation("same", "same")
	if op.Kind != KindNoOp {
		t.Fatalf("want KindNoOp, got %v", op.Kind)
	}
}

func TestGenerateOperationMidStringEdit(t *testing.T) {
	op := GenerateOperation("abcXdef", "abcdef")
	if op.Kind != KindDelete || op.Pos != 3 || op.Text != "X" {
		t.Fatalf("got kind=%v pos=%d text=%q", op.Kind, op.Pos, op.Text)
	}
}
