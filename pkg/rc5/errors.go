package rc5

import "errors"

var (
	ErrInvalidKeyLength   = errors.New("rc5: invalid key length")
	ErrInvalidBlockLength = errors.New("rc5: invalid block length")
	ErrInvalidParams      = errors.New("rc5: invalid parameters")
	ErrUnknownVariant     = errors.New("rc5: unknown variant")
)
