package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/pkg/metrics"
)

// jsonFile reads and writes one JSON document, recording latency and errors
// under the given store label.
type jsonFile struct {
	path  string
	store string
	opts  fileOptions
}

func (f jsonFile) load(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency(f.store, "load", float64(time.Since(start).Microseconds())/1000)
	}()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, f.path)
	}
	if err != nil {
		metrics.RecordStoreError(f.store, "load")
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		metrics.RecordStoreError(f.store, "load")
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, f.path, err)
	}
	return nil
}

func (f jsonFile) save(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency(f.store, "save", float64(time.Since(start).Microseconds())/1000)
	}()

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.RecordStoreError(f.store, "save")
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	b = append(b, '\n')
	if err := f.write(b); err != nil {
		metrics.RecordStoreError(f.store, "save")
		return err
	}
	return nil
}

func (f jsonFile) write(b []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", f.path, err)
		}
	}
	if !f.opts.atomic {
		if err := os.WriteFile(f.path, b, f.opts.mode); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Chmod(f.opts.mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := os.Rename(name, f.path); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// FileRatingStore keeps ratings in a flat JSON object of identifier to rating.
type FileRatingStore struct {
	file jsonFile
}

// NewFileRatingStore creates a rating store backed by path.
func NewFileRatingStore(path string, opts ...Option) *FileRatingStore {
	return &FileRatingStore{file: jsonFile{path: path, store: "ratings", opts: newFileOptions(opts)}}
}

// Path returns the document path.
func (s *FileRatingStore) Path() string { return s.file.path }

// Load implements RatingStore.
func (s *FileRatingStore) Load(ctx context.Context) (model.Ratings, error) {
	var r model.Ratings
	if err := s.file.load(ctx, &r); err != nil {
		return nil, err
	}
	if r == nil {
		r = model.Ratings{}
	}
	return r, nil
}

// Save implements RatingStore.
func (s *FileRatingStore) Save(ctx context.Context, r model.Ratings) error {
	if r == nil {
		r = model.Ratings{}
	}
	return s.file.save(ctx, r)
}

// FileLedgerStore keeps the usage ledger in a JSON document.
type FileLedgerStore struct {
	file jsonFile
}

// NewFileLedgerStore creates a ledger store backed by path.
func NewFileLedgerStore(path string, opts ...Option) *FileLedgerStore {
	return &FileLedgerStore{file: jsonFile{path: path, store: "ledger", opts: newFileOptions(opts)}}
}

// Path returns the document path.
func (s *FileLedgerStore) Path() string { return s.file.path }

// Load implements LedgerStore. Documents written before pair tracking existed
// come back with an empty pair list.
func (s *FileLedgerStore) Load(ctx context.Context) (*model.Ledger, error) {
	l := model.NewLedger()
	if err := s.file.load(ctx, l); err != nil {
		return nil, err
	}
	l.Normalize()
	return l, nil
}

// Save implements LedgerStore.
func (s *FileLedgerStore) Save(ctx context.Context, l *model.Ledger) error {
	if l == nil {
		l = model.NewLedger()
	}
	l.Normalize()
	return s.file.save(ctx, l)
}

// FileRoundStore keeps committed round IDs in a JSON array, oldest first.
type FileRoundStore struct {
	file jsonFile
}

// NewFileRoundStore creates a round store backed by path.
func NewFileRoundStore(path string, opts ...Option) *FileRoundStore {
	return &FileRoundStore{file: jsonFile{path: path, store: "rounds", opts: newFileOptions(opts)}}
}

// Path returns the document path.
func (s *FileRoundStore) Path() string { return s.file.path }

// Load implements RoundStore.
func (s *FileRoundStore) Load(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.file.load(ctx, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Save implements RoundStore.
func (s *FileRoundStore) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.file.save(ctx, ids)
}
