package cvpdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
	// ErrRenderFailed reports a canvas or output failure. Every fatal render
	// error wraps it.
	ErrRenderFailed = errors.New("render failed")
)
