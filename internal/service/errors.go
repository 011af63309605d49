package service

import "errors"

// Sentinel errors shared by the services. Handlers map these onto HTTP
// statuses; everything else is treated as an internal error.
var (
	// ErrNotFound covers every "resource absent" outcome, including download
	// requests by callers who are not entitled. Collapsing the two keeps the
	// core from confirming a document's existence to an ineligible user.
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientPoints is the expected business-rule failure of a
	// purchase attempt the buyer cannot afford.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrSellerMissing signals an integrity fault: a document exists whose
	// uploader account does not. It indicates the stores drifted out of sync
	// and must surface loudly, not as a quiet not-found.
	ErrSellerMissing = errors.New("seller account missing")

	// ErrUserExists is returned by registration when the username or email
	// is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by login on a bad handle or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")
)
