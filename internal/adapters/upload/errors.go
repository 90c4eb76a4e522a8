package upload

import "errors"

// Sentinel kinds for upload errors.
var (
	ErrEmpty           = errors.New("upload is empty")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrNotFound        = errors.New("file not found")
	ErrStorage         = errors.New("upload storage failed")
)

// IsRejected reports whether err is a client-side rejection rather than a storage fault.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrTooLarge)
}
