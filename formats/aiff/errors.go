package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input does not parse as an AIFF file.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates an AIFF variant without a plain
	// PCM sound chunk.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
