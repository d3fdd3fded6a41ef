package authz

// Requirement is a declared permission expression attached to a route. The
// expression is satisfied when the caller holds any of the listed names
// (OR semantics); matching is exact and case-sensitive.
type Requirement struct {
	AnyOf []string
}

func AnyOf(names ...string) Requirement {
	return Requirement{AnyOf: names}
}

// Satisfied evaluates the requirement against an effective permission set.
// An empty requirement denies: guarded routes must declare what they need.
func (r Requirement) Satisfied(effective []string) bool {
	for _, required := range r.AnyOf {
		for _, held := range effective {
			if held == required {
				return true
			}
		}
	}
	return false
}
