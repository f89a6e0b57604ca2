package ot

// Transform returns base rewritten against the effect of self: the result
// is base, incorporating whatever self already did to the document.
// Double dispatch on base's variant mirrors the original's
// transform_insert/transform_delete split.
//
// NoOp is the identity element: nothing has happened, so base comes back
// unchanged regardless of whether base itself has already been
// transformed — consistent with identity semantics, not a bug to fix.
//
// Split transforms against the second child first, then the first,
// mirroring the order Split.Apply uses.
func (self Operation) Transform(base Operation, client bool) Operation {
	switch self.Kind {
	case KindNoOp:
		return base.Clone()
	case KindInsert:
		return base.transformInsert(self.Pos, self.Text, client)
	case KindDelete:
		return base.transformDelete(self.Pos, self.Len(), client)
	case KindSplit:
		op1 := self.Second.Transform(base, client)
		return self.First.Transform(op1, client)
	default:
		return base.Clone()
	}
}

// transformInsert rewrites the receiver to account for an insert(pos, text)
// having already happened. Table per spec §4.3 "Receiver = Insert(P, T)"
// and the insert branch of "Receiver = Delete(P, T)".
func (receiver Operation) transformInsert(pos int, text string, client bool) Operation {
	switch receiver.Kind {
	case KindNoOp:
		return NewNoOp()

	case KindInsert:
		p, t := receiver.Pos, receiver.Text
		switch {
		case p < pos:
			return NewInsert(p, t)
		case p == pos:
			if client {
				// client stays left
				return NewInsert(p, t)
			}
			// server moves right, by its own text's length — spec §4.3
			// and jupiter.cpp's transform_insert shift the tied receiver
			// by |T| (its own insert length), not by the length of the
			// concurrent insert it is being transformed against.
			return NewInsert(p+len([]rune(t)), t)
		default:
			return NewInsert(p+len([]rune(text)), t)
		}

	case KindDelete:
		p, t := receiver.Pos, receiver.Text
		n := receiver.Len()
		m := len([]rune(text))
		switch {
		case pos <= p:
			// Case 6 / Case 7 boundary: insert at or before the delete's
			// start shifts the whole delete right.
			return NewDelete(p+m, t)
		case pos > p+n:
			return NewDelete(p, t)
		default:
			// Insert landed inside the range being deleted: split into
			// the two flanking pieces around it.
			runes := []rune(t)
			cut := pos - p
			first := NewDelete(p, string(runes[:cut]))
			second := NewDelete(pos+m, string(runes[cut:]))
			return newSplit(first, second)
		}

	case KindSplit:
		first := receiver.First.transformInsert(pos, text, client)
		second := receiver.Second.transformInsert(pos, text, client)
		return newSplit(first, second)

	default:
		return receiver.Clone()
	}
}

// transformDelete rewrites the receiver to account for a delete(pos, n)
// having already happened. Table per spec §4.3 "Receiver = Insert(P, T)"
// delete branch and "Receiver = Delete(P, T)" delete branch.
func (receiver Operation) transformDelete(pos, n int, client bool) Operation {
	switch receiver.Kind {
	case KindNoOp:
		return NewNoOp()

	case KindInsert:
		p := receiver.Pos
		switch {
		case p <= pos:
			return NewInsert(p, receiver.Text)
		case p > pos+n:
			return NewInsert(p-n, receiver.Text)
		default:
			// Collapse to the deletion's left edge.
			return NewInsert(pos, receiver.Text)
		}

	case KindDelete:
		p := receiver.Pos
		t := receiver.Text
		nn := receiver.Len()
		runes := []rune(t)
		switch {
		case p+nn < pos:
			return NewDelete(p, t)
		case p >= pos+n:
			return NewDelete(p-n, t)
		case pos <= p && pos+n >= p+nn:
			// Entirely subsumed.
			return NewNoOp()
		case pos <= p && pos+n < p+nn:
			// Left side subsumed.
			return NewDelete(pos, string(runes[pos+n-p:]))
		case pos > p && pos+n >= p+nn:
			// Right side subsumed.
			return NewDelete(p, string(runes[:pos-p]))
		default:
			// Middle subsumed: keep the two flanking edges, concatenated.
			left := string(runes[:pos-p])
			right := string(runes[pos+n-p:])
			return NewDelete(p, left+right)
		}

	case KindSplit:
		first := receiver.First.transformDelete(pos, n, client)
		second := receiver.Second.transformDelete(pos, n, client)
		return newSplit(first, second)

	default:
		return receiver.Clone()
	}
}

// IT is the inclusion transformation: a seam so the dispatch policy (today
// just trans.Transform(base, client)) can evolve without touching call
// sites in Site.RemoteOp.
type IT struct{}

// Transform returns base rewritten to incorporate the effect of trans.
func (IT) Transform(base, trans Operation, client bool) Operation {
	return trans.Transform(base, client)
}
