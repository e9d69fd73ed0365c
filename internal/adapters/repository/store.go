// Package repository persists the rating store, the usage ledger and the
// committed round IDs as JSON documents on disk.
package repository

import (
	"context"

	"github.com/okian/picarena/internal/domain/model"
)

// RatingStore provides read/write access to the image ratings document.
type RatingStore interface {
	// Load reads the whole document. Returns ErrNotFound when it does not
	// exist yet and ErrCorrupt when it cannot be decoded.
	Load(ctx context.Context) (model.Ratings, error)
	// Save replaces the whole document.
	Save(ctx context.Context, r model.Ratings) error
}

// LedgerStore provides read/write access to the usage ledger document.
type LedgerStore interface {
	// Load reads the ledger. Returns ErrNotFound when it does not exist yet
	// and ErrCorrupt when it cannot be decoded.
	Load(ctx context.Context) (*model.Ledger, error)
	// Save replaces the ledger.
	Save(ctx context.Context, l *model.Ledger) error
}

// RoundStore provides read/write access to the committed round IDs.
type RoundStore interface {
	// Load reads the IDs, oldest first. Returns ErrNotFound when the document
	// does not exist yet and ErrCorrupt when it cannot be decoded.
	Load(ctx context.Context) ([]string, error)
	// Save replaces the IDs.
	Save(ctx context.Context, ids []string) error
}
