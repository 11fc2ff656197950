package merkle

import "testing"

func TestPreparedWindowInitialPair(t *testing.T) {
	w := NewPreparedWindow(3)
	if !w.Prepared(3) || !w.Prepared(4) {
		t.Fatalf("expected indices 3 and 4 prepared initially")
	}
	if w.Prepared(5) {
		t.Fatalf("index 5 should not be prepared yet")
	}
}

func TestPreparedWindowSlide(t *testing.T) {
	w := NewPreparedWindow(0)
	w.Slide(0, 2)
	if w.Prepared(0) {
		t.Fatalf("old left index should no longer be prepared")
	}
	if !w.Prepared(1) || !w.Prepared(2) {
		t.Fatalf("expected indices 1 and 2 prepared after slide")
	}
}
