package ahap

import "errors"

// Sentinel errors returned (wrapped) by the pattern API
var (
	// ErrOutOfRange is returned when a frequency or its normalized value is outside the allowed range
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidArgument is returned for arguments no document could hold, such as a zero step count
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsInvalidArgument reports whether err is, or wraps, ErrInvalidArgument
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsOutOfRange reports whether err is, or wraps, ErrOutOfRange
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
