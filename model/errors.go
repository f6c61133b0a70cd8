package model

import "github.com/pkg/errors"

var (
	// ErrDecode marks a malformed input score, either bytes the codec
	// could not read or an in-memory score with impossible values.
	ErrDecode = errors.New("decode error")

	// ErrInvalidParameter marks a parameter outside its domain, such as a
	// non-positive tempo or time signature component.
	ErrInvalidParameter = errors.New("invalid parameter")
)

const (
	KindDecode           = "decode"
	KindInvalidParameter = "invalid_parameter"
	KindInternal         = "internal"
)

func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrInvalidParameter):
		return KindInvalidParameter
	default:
		return KindInternal
	}
}
