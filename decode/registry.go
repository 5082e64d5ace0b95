// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OpenFunc constructs a Decoder over an open stream. The stream outlives
// the call; the registry ties its lifetime to the returned decoder.
type OpenFunc func(rs io.ReadSeeker) (Decoder, error)

// Registry maps file extensions to decoder constructors.
type Registry struct {
	mu     sync.Mutex
	codecs map[string]OpenFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]OpenFunc)}
}

// Register binds a constructor to one or more extensions. Extensions are
// matched without the dot and case-insensitively; a later registration
// for the same extension replaces the earlier one.
func (r *Registry) Register(open OpenFunc, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extensions {
		r.codecs[normalizeExt(ext)] = open
	}
}

// Lookup returns the constructor registered for an extension.
func (r *Registry) Lookup(ext string) (OpenFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	open, ok := r.codecs[normalizeExt(ext)]
	return open, ok
}

// Supports reports whether the path's extension has a registered decoder.
func (r *Registry) Supports(path string) bool {
	_, ok := r.Lookup(filepath.Ext(path))
	return ok
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open opens the file at path with the decoder registered for its
// extension. The extension is checked before the file system is touched.
// Closing the returned decoder closes the file as well.
func (r *Registry) Open(path string) (Decoder, error) {
	ext := filepath.Ext(path)
	open, ok := r.Lookup(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	dec, err := open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &fileDecoder{Decoder: dec, file: f}, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// fileDecoder couples a decoder to the file it reads from.
type fileDecoder struct {
	Decoder
	file *os.File
}

func (d *fileDecoder) Close() error {
	err := d.Decoder.Close()
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	return err
}
