package types

// Assignable reports whether a value of type src may flow into a slot of
// type dst under structural subtyping. Refinement predicates are not decided
// here: a refined dst only passes when src carries a refinement with the
// same declared name or an identical predicate node; the checker's
// entailment engine handles everything weaker than that before asking.
func Assignable(dst, src Type) bool {
	if dst == nil || src == nil {
		return true
	}
	if _, ok := dst.(UnknownType); ok {
		return true
	}
	if _, ok := src.(UnknownType); ok {
		return true
	}
	if _, ok := dst.(AnyType); ok {
		return true
	}

	if ref, ok := dst.(RefinementType); ok {
		if !Assignable(ref.Base, Underlying(src)) {
			return false
		}
		return refinementCovered(ref, src)
	}

	// A refined source is at least its base.
	if ref, ok := src.(RefinementType); ok {
		return Assignable(dst, ref.Base)
	}

	// Union source: every member must fit.
	if union, ok := src.(UnionType); ok {
		for _, m := range union.Members {
			if !Assignable(dst, m) {
				return false
			}
		}
		return true
	}

	// Union destination: some member must accept.
	if union, ok := dst.(UnionType); ok {
		for _, m := range union.Members {
			if Assignable(m, src) {
				return true
			}
		}
		return false
	}

	switch d := dst.(type) {
	case PrimitiveType:
		s, ok := src.(PrimitiveType)
		return ok && s.Kind == d.Kind
	case RecordType:
		s, ok := src.(RecordType)
		if !ok {
			return false
		}
		// Width subtyping: src may carry extra fields; every dst field must
		// be present and assignable (depth).
		for name, fieldType := range d.Fields {
			srcField, ok := s.Fields[name]
			if !ok {
				return false
			}
			if !Assignable(fieldType, srcField) {
				return false
			}
		}
		return true
	case ListType:
		s, ok := src.(ListType)
		if !ok {
			return false
		}
		return Assignable(d.Element, s.Element)
	case RangeType:
		_, ok := src.(RangeType)
		return ok
	case FunctionType:
		s, ok := src.(FunctionType)
		if !ok {
			return false
		}
		if len(d.Params) != len(s.Params) {
			return false
		}
		// Contravariant parameters, covariant result.
		for i := range d.Params {
			if !Assignable(s.Params[i], d.Params[i]) {
				return false
			}
		}
		return Assignable(d.Return, s.Return)
	}
	return false
}

func refinementCovered(dst RefinementType, src Type) bool {
	for _, ref := range Refinements(src) {
		if dst.RefName != "" && ref.RefName == dst.RefName {
			return true
		}
		if dst.Predicate != nil && ref.Predicate == dst.Predicate {
			return true
		}
	}
	return false
}

// Equal reports structural equality (mutual assignability of exact shapes).
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case PrimitiveType:
		bv, ok := b.(PrimitiveType)
		return ok && av.Kind == bv.Kind
	case UnknownType:
		_, ok := b.(UnknownType)
		return ok
	case AnyType:
		_, ok := b.(AnyType)
		return ok
	case RecordType:
		bv, ok := b.(RecordType)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for name, fieldType := range av.Fields {
			other, ok := bv.Fields[name]
			if !ok || !Equal(fieldType, other) {
				return false
			}
		}
		return true
	case ListType:
		bv, ok := b.(ListType)
		return ok && Equal(av.Element, bv.Element)
	case RangeType:
		_, ok := b.(RangeType)
		return ok
	case FunctionType:
		bv, ok := b.(FunctionType)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Return, bv.Return)
	case UnionType:
		bv, ok := b.(UnionType)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		for i := range av.Members {
			if !Equal(av.Members[i], bv.Members[i]) {
				return false
			}
		}
		return true
	case RefinementType:
		bv, ok := b.(RefinementType)
		if !ok {
			return false
		}
		if av.RefName != "" || bv.RefName != "" {
			return av.RefName == bv.RefName && Equal(av.Base, bv.Base)
		}
		return av.Predicate == bv.Predicate && Equal(av.Base, bv.Base)
	}
	return false
}
