package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrSessionNotFound    = errors.New("no active session")
	ErrKeyNotFound        = errors.New("cache key not found")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrEmptyServiceName   = errors.New("service name is empty")
	ErrUnknownService     = errors.New("service is not in the catalog")
	ErrMalformedPayload   = errors.New("malformed account payload")
	ErrRemoteUnavailable  = errors.New("remote account source unavailable")
	ErrPersistence        = errors.New("persist service ledger")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
