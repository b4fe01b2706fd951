package typesystem

// IsSubtype reports whether sub may be used where super is required.
//
// Rules:
//   - everything is a subtype of Any
//   - Never is a subtype of everything
//   - a union on the left fits iff every alternative fits
//   - a union on the right fits iff some alternative fits
//   - atomic types by name identity
//   - container applications covariantly, pointwise over arguments
func IsSubtype(sub, super Type) bool {
	if sub == nil || super == nil {
		return false
	}

	if _, ok := super.(TAny); ok {
		return true
	}
	if _, ok := sub.(TNever); ok {
		return true
	}

	if u, ok := sub.(TUnion); ok {
		for _, alt := range u.Types {
			if !IsSubtype(alt, super) {
				return false
			}
		}
		return true
	}

	if u, ok := super.(TUnion); ok {
		for _, alt := range u.Types {
			if IsSubtype(sub, alt) {
				return true
			}
		}
		return false
	}

	switch s := sub.(type) {
	case TCon:
		c, ok := super.(TCon)
		return ok && c.Name == s.Name
	case TApp:
		c, ok := super.(TApp)
		if !ok {
			// A bare constructor on the right accepts any application
			// of the same constructor (List<Int> fits List).
			if con, isCon := super.(TCon); isCon {
				subCon, isSubCon := s.Constructor.(TCon)
				return isSubCon && subCon.Name == con.Name
			}
			return false
		}
		if !Equal(s.Constructor, c.Constructor) || len(s.Args) != len(c.Args) {
			return false
		}
		for i := range s.Args {
			if !IsSubtype(s.Args[i], c.Args[i]) {
				return false
			}
		}
		return true
	case TAny:
		// Any fits only Any, handled above.
		return false
	}
	return false
}
