// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	// ErrInvalid is returned when a configuration value fails validation.
	ErrInvalid = errors.New("invalid configuration")
)
