package analysis

import "errors"

var (
	// ErrTextTooShort indicates the input has too few characters for the
	// requested statistic.
	ErrTextTooShort = errors.New("analysis: text too short")

	// ErrInvalidKeyLength indicates a key length below 1 or longer than the
	// text.
	ErrInvalidKeyLength = errors.New("analysis: invalid key length")
)
