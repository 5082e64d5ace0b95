// SPDX-License-Identifier: EPL-2.0

package decode

import "errors"

var (
	// ErrUnsupportedFormat indicates no registered decoder handles the
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrReaderStopped indicates a request on a Reader whose decode
	// goroutine has been stopped.
	ErrReaderStopped = errors.New("stream reader is stopped")
)
