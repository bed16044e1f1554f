package auth

import "errors"

var (
	// ErrInvalidToken indicates the token failed verification.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnauthenticated indicates the request carries no usable credential.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrForbidden indicates the principal is not the owner of the resource.
	ErrForbidden = errors.New("auth: forbidden")
)
