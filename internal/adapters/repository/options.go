package repository

import "os"

const defaultFileMode os.FileMode = 0o644

// Option applies a configuration option to a JSON file store.
type Option func(*fileOptions)

type fileOptions struct {
	mode   os.FileMode
	atomic bool
}

func newFileOptions(opts []Option) fileOptions {
	o := fileOptions{mode: defaultFileMode, atomic: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFileMode sets the permission bits of written documents.
func WithFileMode(mode os.FileMode) Option {
	return func(o *fileOptions) {
		if mode != 0 {
			o.mode = mode
		}
	}
}

// WithAtomicWrites controls whether documents are written to a temporary file
// and renamed into place. Enabled by default.
func WithAtomicWrites(enabled bool) Option {
	return func(o *fileOptions) {
		o.atomic = enabled
	}
}
