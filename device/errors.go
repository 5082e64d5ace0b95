// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrNoOutputs indicates the host found no output devices at all.
	ErrNoOutputs = errors.New("no output devices available")

	// ErrNoCompatibleConfig indicates no device reports a configuration
	// that can carry the requested format.
	ErrNoCompatibleConfig = errors.New("no compatible device configuration")

	// ErrUnknownDevice indicates a StreamConfig named a device ID the
	// host does not know.
	ErrUnknownDevice = errors.New("unknown output device")

	// ErrUnsupportedSampleType indicates the backend has no native
	// encoding for the requested sample type.
	ErrUnsupportedSampleType = errors.New("sample type not supported by backend")

	// ErrHostClosed indicates an operation on a closed host.
	ErrHostClosed = errors.New("audio host is closed")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("audio stream is closed")
)
