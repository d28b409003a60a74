package resolve

// equalValue reports structural equality between two resolved Values,
// used by resolveSetList to dedup a `(set)>`-tagged list in
// first-occurrence order.
func equalValue(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	case KindInt:
		if a.Int == nil || b.Int == nil {
			return a.Int == b.Int
		}
		return a.Int.Cmp(b.Int) == 0
	case KindFloat:
		return a.Float == b.Float
	case KindComplex:
		return a.Complex == b.Complex
	case KindRational:
		return a.Rational.RatToBigRat().Cmp(b.Rational.RatToBigRat()) == 0
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !equalValue(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.Dict.Entries) != len(b.Dict.Entries) {
			return false
		}
		for _, e := range a.Dict.Entries {
			bv, ok := b.Dict.Get(e.Key)
			if !ok || !equalValue(e.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
