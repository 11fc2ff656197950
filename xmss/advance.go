package xmss

// AdvancePreparation implements §4.7's advance_preparation: once the
// activation window has room for a third bottom tree beyond the
// current [left, left+2) pair, build it, slide the window forward by
// one, and drop the old left tree. A no-op (idempotent) once the
// window can no longer advance.
func (s *Scheme) AdvancePreparation(sk *SecretKey) error {
	lp := s.LP
	L := uint64(lp.BottomTreeLeaves())
	leftB := uint64(sk.LeftBottomTreeIndex)

	if leftB*L+3*L > sk.ActivationEpoch+sk.NumActiveEpochs {
		return nil
	}

	newTree := buildOrLoadBottomTree(sk.PRFKey[:], sk.Parameter, int(leftB)+2, lp)
	sk.LeftBottomTree = sk.RightBottomTree
	sk.RightBottomTree = newTree
	if sk.Prepared != nil {
		sk.Prepared.Slide(int(leftB), int(leftB)+2)
	}
	sk.LeftBottomTreeIndex++
	return nil
}
