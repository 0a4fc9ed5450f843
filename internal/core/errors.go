package core

import "errors"

// Training failures. All are recoverable: the caller may retry with a larger
// or different batch, and any previously trained bundle stays in place
var (
	ErrInsufficientData           = errors.New("insufficient training data")
	ErrMissingTargetColumn        = errors.New("status column missing from batch")
	ErrNoOpenRecords              = errors.New("no open records to train on")
	ErrInsufficientLabelDiversity = errors.New("open records need at least two distinct statuses")
)

// IsTrainingError reports whether err is one of the recoverable training failures
func IsTrainingError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrMissingTargetColumn) ||
		errors.Is(err, ErrNoOpenRecords) ||
		errors.Is(err, ErrInsufficientLabelDiversity)
}
