// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"fmt"

	"github.com/auricle-audio/auricle/formats/aiff"
)

func ExampleNew() {
	_, err := aiff.New(bytes.NewReader([]byte("definitely not an AIFF stream")))
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// not an AIFF file
}
