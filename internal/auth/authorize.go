package auth

// Owned is implemented by content entities that belong to a single user.
// Ownership is the sole basis for mutation authorization: every mutable owned
// entity passes through the same check, whatever its type.
type Owned interface {
	OwnerID() string
}

// Authorize reports whether the principal may mutate the resource.
// Callers must confirm the resource exists before calling, so "does not
// exist" and "exists but not yours" stay distinguishable.
func Authorize(principal Principal, resource Owned) error {
	if resource == nil || principal.ID == "" {
		return ErrForbidden
	}
	if resource.OwnerID() != principal.ID {
		return ErrForbidden
	}
	return nil
}
