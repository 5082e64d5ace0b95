// SPDX-License-Identifier: EPL-2.0

package flac_test

import (
	"bytes"
	"fmt"

	"github.com/auricle-audio/auricle/formats/flac"
)

// ExampleNew shows the construction error path; opening a real file works
// the same way with the *os.File as the reader.
func ExampleNew() {
	_, err := flac.New(bytes.NewReader([]byte("not a flac stream")))
	if err != nil {
		fmt.Println("rejected: stream is not FLAC")
	}
	// Output: rejected: stream is not FLAC
}
