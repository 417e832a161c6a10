package screenshots

import "errors"

// ErrInputNotFound indicates the scan directory does not exist or is not a directory.
var ErrInputNotFound = errors.New("input directory not found")

// ErrEmptyInput indicates the scan directory holds no qualifying images.
var ErrEmptyInput = errors.New("no screenshots found")
