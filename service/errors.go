package services

import "errors"

// Error codes reported to clients alongside an empty result.
const (
	ErrorQueryFailed       = "queryFailed"
	ErrorMuseumQueryFailed = "museumQueryFailed"
	ErrorMissingSource     = "missingSource"
	ErrorUnknown           = "unknown"
)

var (
	ErrQueryFailed       = errors.New(ErrorQueryFailed)
	ErrMuseumQueryFailed = errors.New(ErrorMuseumQueryFailed)
	ErrMissingSource     = errors.New(ErrorMissingSource)
	ErrUnknown           = errors.New(ErrorUnknown)

	ErrMuseumNotFound = errors.New("museum not found")
)

// ErrorCode maps err to the code reported to clients, or "" for nil.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMuseumQueryFailed):
		return ErrorMuseumQueryFailed
	case errors.Is(err, ErrQueryFailed):
		return ErrorQueryFailed
	case errors.Is(err, ErrMissingSource):
		return ErrorMissingSource
	default:
		return ErrorUnknown
	}
}
