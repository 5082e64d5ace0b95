// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	// ErrDevice covers device enumeration, stream construction and
	// stream start/stop failures.
	ErrDevice = errors.New("audio device failure")

	// ErrFormat indicates the loaded format cannot be driven, either
	// because its parameters are invalid or because no output
	// configuration can carry it.
	ErrFormat = errors.New("incompatible audio format")

	// ErrState indicates an operation that the current playback state
	// does not permit.
	ErrState = errors.New("invalid engine state")

	// ErrDecoding wraps failures from the decoder layer, including
	// unsupported and unreadable files.
	ErrDecoding = errors.New("decoding failed")
)
