package merkle

import "github.com/bits-and-blooms/bitset"

// PreparedWindow tracks which bottom-tree indices currently have a
// built HashSubTree in memory. The scheme orchestrator only ever keeps
// two live at once (left/right), but the bitset makes "is this index
// prepared" an O(1) membership check instead of re-deriving it from
// LeftBottomTreeIndex arithmetic at every call site, and gives
// AdvancePreparation a place to record the slide.
type PreparedWindow struct {
	bits *bitset.BitSet
}

// NewPreparedWindow marks left and left+1 as the initial prepared pair,
// matching KeyGen's retained left/right bottom trees.
func NewPreparedWindow(left int) *PreparedWindow {
	b := bitset.New(uint(left) + 2)
	b.Set(uint(left))
	b.Set(uint(left) + 1)
	return &PreparedWindow{bits: b}
}

// Prepared reports whether bottomIndex currently has a built tree.
func (w *PreparedWindow) Prepared(bottomIndex int) bool {
	if bottomIndex < 0 {
		return false
	}
	return w.bits.Test(uint(bottomIndex))
}

// Slide drops oldLeft and marks newRight prepared, matching
// AdvancePreparation's left<-right, right<-new(left+2) shift. Set
// auto-extends the underlying bitset, so newRight need not already be
// within its current length.
func (w *PreparedWindow) Slide(oldLeft, newRight int) {
	w.bits.Clear(uint(oldLeft))
	w.bits.Set(uint(newRight))
}
