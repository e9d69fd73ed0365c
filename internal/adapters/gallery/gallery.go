// Package gallery reads the image directory: the eligible listing, the
// stable listing positions used for pair keys, and name reconciliation.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotFound is returned when a requested image is not in the directory.
var ErrNotFound = errors.New("image not found")

// DefaultExtensions are the eligible image extensions.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// Option applies a configuration option to the Gallery.
type Option func(*Gallery)

// WithExtensions replaces the eligible extensions. Matching is case-insensitive
// and a missing leading dot is added.
func WithExtensions(exts ...string) Option {
	return func(g *Gallery) {
		var out []string
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			out = append(out, e)
		}
		if len(out) > 0 {
			g.extensions = out
		}
	}
}

// Gallery is a read-only view over the image directory. The directory is
// re-read on every call so files added or removed while running are seen.
type Gallery struct {
	dir        string
	extensions []string
}

// New creates a gallery rooted at dir.
func New(dir string, opts ...Option) *Gallery {
	g := &Gallery{
		dir:        dir,
		extensions: slices.Clone(DefaultExtensions),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dir returns the image directory.
func (g *Gallery) Dir() string { return g.dir }

// IsEligible reports whether name carries an eligible extension.
func (g *Gallery) IsEligible(name string) bool {
	return slices.Contains(g.extensions, strings.ToLower(filepath.Ext(name)))
}

// entries returns the directory's regular file names in lexical order.
func (g *Gallery) entries(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir %s: %w", g.dir, err)
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		if !de.Type().IsRegular() {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

// List returns the eligible images sorted lexically.
func (g *Gallery) List(ctx context.Context) ([]string, error) {
	names, err := g.entries(ctx)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if g.IsEligible(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Index maps every eligible image to its position in List.
func (g *Gallery) Index(ctx context.Context) (map[string]int, error) {
	images, err := g.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(images))
	for i, n := range images {
		idx[n] = i
	}
	return idx, nil
}

// Exists reports whether name is a regular file in the directory.
func (g *Gallery) Exists(name string) bool {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return false
	}
	fi, err := os.Stat(filepath.Join(g.dir, name))
	return err == nil && fi.Mode().IsRegular()
}

// Resolve maps a possibly mismatched name to the file actually on disk.
// An exact match wins; otherwise the first eligible file sharing the
// extension-stripped name is returned; otherwise raw comes back unchanged.
func (g *Gallery) Resolve(ctx context.Context, raw string) string {
	if g.Exists(raw) {
		return filepath.Base(raw)
	}
	stem := strings.TrimSuffix(raw, filepath.Ext(raw))
	names, err := g.entries(ctx)
	if err != nil {
		return raw
	}
	for _, n := range names {
		if strings.TrimSuffix(n, filepath.Ext(n)) == stem && g.IsEligible(n) {
			return n
		}
	}
	return raw
}

// Path returns the on-disk path of a reconciled image.
func (g *Gallery) Path(ctx context.Context, name string) (string, error) {
	resolved := g.Resolve(ctx, filepath.Base(name))
	if !g.Exists(resolved) || !g.IsEligible(resolved) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return filepath.Join(g.dir, resolved), nil
}

// Open opens a reconciled image for reading.
func (g *Gallery) Open(ctx context.Context, name string) (fs.File, string, error) {
	p, err := g.Path(ctx, name)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p) //nolint:gosec // path is confined to the image dir by Path
	if err != nil {
		return nil, "", fmt.Errorf("open image %s: %w", name, err)
	}
	return f, filepath.Base(p), nil
}
