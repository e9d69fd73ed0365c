// Package service implements the rating workflow: pairing, voting, the commit
// of new ratings and usage counters, reset and the read models.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/picarena/internal/adapters/repository"
	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/internal/domain/pairing"
	"github.com/okian/picarena/internal/domain/rating"
	"github.com/okian/picarena/internal/domain/rounds"
	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
	"github.com/okian/picarena/pkg/metrics"
)

const defaultRoundCacheSize = 10000

// Sentinel errors returned by the service.
var (
	ErrInvalidVote        = types.ErrInvalidVote
	ErrNotFound           = types.ErrNotFound
	ErrInsufficientImages = pairing.ErrInsufficientImages
)

// Gallery is the image directory as seen by the service.
type Gallery interface {
	List(ctx context.Context) ([]string, error)
	Index(ctx context.Context) (map[string]int, error)
	Resolve(ctx context.Context, raw string) string
	Open(ctx context.Context, name string) (fs.File, string, error)
}

// Selector picks the two images of a round.
type Selector interface {
	Select(ctx context.Context) (string, string, error)
}

// Service implements the API dependencies for the rating arena.
type Service struct {
	gallery Gallery
	ratings repository.RatingStore
	ledger  repository.LedgerStore

	engine   *rating.Engine
	selector Selector
	tracker  rounds.Tracker

	roundStore repository.RoundStore
	roundsMu   sync.Mutex

	resetSecret    string
	roundCacheSize int
	newRoundID     func() string

	logger logger.Logger
}

// New constructs a Service over the given image directory and documents.
func New(g Gallery, ratings repository.RatingStore, ledger repository.LedgerStore, opts ...Option) *Service {
	s := &Service{
		gallery:        g,
		ratings:        ratings,
		ledger:         ledger,
		roundCacheSize: defaultRoundCacheSize,
		newRoundID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = rating.NewEngine()
	}
	if s.selector == nil {
		s.selector = pairing.NewSelector(g)
	}
	if s.tracker == nil {
		s.tracker = rounds.NewTracker(rounds.WithMaxSize(s.roundCacheSize))
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Start brings both documents in line with the image directory: a missing
// rating store is created, images missing from it are seeded at the initial
// rating and the ledger is created or upgraded. Stale ratings are kept.
// Committed round IDs are reloaded when a round store is configured.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.start"

	images, err := s.gallery.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ratings, err := s.loadRatings(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	added := 0
	for _, img := range images {
		if ratings.Ensure(img, s.engine.InitialRating()) {
			added++
		}
	}
	if err := s.ratings.Save(ctx, ratings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ledger.ComparisonsMade = len(ledger.PairsRated)
	if err := s.ledger.Save(ctx, ledger); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.roundStore != nil {
		ids, err := s.roundStore.Load(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.tracker.Restore(ctx, ids)
	}

	metrics.UpdateEligibleImages(len(images))
	metrics.UpdateLedger(len(ledger.ImagesRated), len(ledger.PairsRated))
	s.logger.Info(ctx, "rating arena ready",
		logger.Int("images", len(images)),
		logger.Int("seeded", added),
		logger.Int("ratings", len(ratings)),
		logger.Int("totalRatings", ledger.TotalRatings),
		logger.Int("rounds", int(s.tracker.Size())),
	)
	return nil
}

// NextPair draws two distinct images and mints a round ID for them.
func (s *Service) NextPair(ctx context.Context) (types.Round, error) {
	a, b, err := s.selector.Select(ctx)
	if err != nil {
		if errors.Is(err, ErrInsufficientImages) {
			metrics.RecordInsufficientImages()
		}
		return types.Round{}, fmt.Errorf("service.next_pair: %w", err)
	}
	metrics.RecordPairServed()
	return types.Round{RoundID: s.newRoundID(), Image1: a, Image2: b}, nil
}

// Rate validates a vote, computes the new ratings and commits them.
func (s *Service) Rate(ctx context.Context, v types.Vote) (types.Result, error) {
	const op = "service.rate"

	if !v.Outcome.Valid() {
		return types.Result{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidVote, model.ErrUnknownOutcome)
	}
	a, err := s.identifier(ctx, v.Image1)
	if err != nil {
		return types.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	b, err := s.identifier(ctx, v.Image2)
	if err != nil {
		return types.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if a == b {
		return types.Result{}, fmt.Errorf("%s: %w: both images are %q", op, ErrInvalidVote, a)
	}

	if v.RoundID != "" && s.tracker.Claim(ctx, v.RoundID) {
		metrics.RecordDuplicateRound()
		s.logger.Debug(ctx, "duplicate round, not applied", logger.String("round", v.RoundID))
		ratings, err := s.loadRatings(ctx)
		if err != nil {
			return types.Result{}, fmt.Errorf("%s: %w", op, err)
		}
		return s.result(v, a, b, s.ratingOf(ratings, a), s.ratingOf(ratings, b), true), nil
	}

	ratings, err := s.loadRatings(ctx)
	if err != nil {
		s.release(ctx, v.RoundID)
		return types.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	newA, newB, err := s.engine.Update(s.ratingOf(ratings, a), s.ratingOf(ratings, b), v.Outcome)
	if err != nil {
		s.release(ctx, v.RoundID)
		return types.Result{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidVote, err)
	}
	if err := s.Commit(ctx, a, b, v.Outcome, newA, newB); err != nil {
		s.release(ctx, v.RoundID)
		return types.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if v.RoundID != "" {
		s.saveRounds(ctx)
	}
	return s.result(v, a, b, newA, newB, false), nil
}

// Commit writes two new ratings and the matching ledger update. Both
// documents are re-read right before they are changed; concurrent commits
// may overwrite each other.
func (s *Service) Commit(ctx context.Context, a, b string, outcome model.Outcome, newA, newB int) error {
	const op = "service.commit"

	ratings, err := s.loadRatings(ctx)
	if err != nil {
		return s.commitFailed(ctx, op, err)
	}
	ratings[a] = newA
	ratings[b] = newB
	if err := s.ratings.Save(ctx, ratings); err != nil {
		return s.commitFailed(ctx, op, err)
	}

	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return s.commitFailed(ctx, op, err)
	}
	index, err := s.gallery.Index(ctx)
	if err != nil {
		return s.commitFailed(ctx, op, err)
	}
	key := ""
	ia, okA := index[a]
	ib, okB := index[b]
	if okA && okB {
		key = model.PairKey(ia, ib)
	}
	ledger.Record(a, b, outcome, key)
	if err := s.ledger.Save(ctx, ledger); err != nil {
		return s.commitFailed(ctx, op, err)
	}

	metrics.RecordRating(outcome.String())
	metrics.UpdateLedger(len(ledger.ImagesRated), len(ledger.PairsRated))
	s.logger.Info(ctx, "rating committed",
		logger.String("outcome", outcome.String()),
		logger.String("image1", a),
		logger.Int("rating1", newA),
		logger.String("image2", b),
		logger.Int("rating2", newB),
	)
	return nil
}

// Reset replaces both documents with their initial state when secret matches
// the configured one. A mismatch returns false and changes nothing.
func (s *Service) Reset(ctx context.Context, secret string) (bool, error) {
	const op = "service.reset"

	if s.resetSecret == "" || secret != s.resetSecret {
		metrics.RecordReset("rejected")
		s.logger.Warn(ctx, "reset rejected")
		return false, nil
	}

	images, err := s.gallery.List(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	ratings := make(model.Ratings, len(images))
	for _, img := range images {
		ratings[img] = s.engine.InitialRating()
	}
	if err := s.ratings.Save(ctx, ratings); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.ledger.Save(ctx, model.NewLedger()); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.tracker.Reset(ctx)
	s.saveRounds(ctx)

	metrics.RecordReset("accepted")
	metrics.UpdateEligibleImages(len(images))
	metrics.UpdateLedger(0, 0)
	s.logger.Info(ctx, "ratings reset", logger.Int("images", len(images)))
	return true, nil
}

// Leaderboard returns rated images ordered by rating desc, then name asc.
// limit <= 0 returns every entry.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	entries, err := s.board(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.leaderboard: %w", err)
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// Rank returns the leaderboard entry of one image.
func (s *Service) Rank(ctx context.Context, image string) (types.Entry, error) {
	const op = "service.rank"

	id, err := s.identifier(ctx, image)
	if err != nil {
		return types.Entry{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	entries, err := s.board(ctx)
	if err != nil {
		return types.Entry{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, e := range entries {
		if e.Image == id {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("%s: %w: %s", op, ErrNotFound, id)
}

// Stats summarises usage.
func (s *Service) Stats(ctx context.Context) (types.Summary, error) {
	const op = "service.stats"

	images, err := s.gallery.List(ctx)
	if err != nil {
		return types.Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	ledger, err := s.loadLedger(ctx)
	if err != nil {
		return types.Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	ratings, err := s.seeded(ctx, images)
	if err != nil {
		return types.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	pct := ledger.Distribution.Percentages()
	dist := make([]types.DistributionBucket, 0, len(pct))
	for _, o := range model.Outcomes() {
		dist = append(dist, types.DistributionBucket{
			Outcome: o,
			Label:   o.Title(),
			Count:   ledger.Distribution.Count(o),
			Percent: pct[o],
		})
	}
	lo, hi := ratings.Bounds(s.engine.InitialRating())

	metrics.UpdateEligibleImages(len(images))
	return types.Summary{
		TotalRatings:        ledger.TotalRatings,
		ImagesRated:         len(ledger.ImagesRated),
		TotalImages:         len(images),
		ComparisonsMade:     len(ledger.PairsRated),
		PossibleComparisons: types.PossiblePairs(len(images)),
		Distribution:        dist,
		MinRating:           lo,
		MaxRating:           hi,
	}, nil
}

// OpenImage opens an image by a possibly mismatched name.
func (s *Service) OpenImage(ctx context.Context, name string) (fs.File, string, error) {
	f, resolved, err := s.gallery.Open(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("service.open_image: %w: %w", ErrNotFound, err)
	}
	return f, resolved, nil
}

func (s *Service) board(ctx context.Context) ([]types.Entry, error) {
	images, err := s.gallery.List(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.seeded(ctx, images)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(images))
	for _, img := range images {
		present[img] = struct{}{}
	}

	entries := make([]types.Entry, 0, len(ratings))
	for id, r := range ratings {
		_, ok := present[id]
		entries = append(entries, types.Entry{Image: id, Rating: r, Present: ok})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].Image < entries[j].Image
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// seeded loads the ratings and adds images that appeared in the directory
// since the last save at the initial rating. A failed save is logged and the
// seeded ratings are still returned.
func (s *Service) seeded(ctx context.Context, images []string) (model.Ratings, error) {
	ratings, err := s.loadRatings(ctx)
	if err != nil {
		return nil, err
	}
	added := 0
	for _, img := range images {
		if ratings.Ensure(img, s.engine.InitialRating()) {
			added++
		}
	}
	if added == 0 {
		return ratings, nil
	}
	if err := s.ratings.Save(ctx, ratings); err != nil {
		s.logger.Warn(ctx, "save seeded ratings", logger.Error(err))
		return ratings, nil
	}
	s.logger.Info(ctx, "new images seeded", logger.Int("seeded", added))
	return ratings, nil
}

// saveRounds writes the committed round IDs. A failure is logged; the rounds
// stay remembered in memory.
func (s *Service) saveRounds(ctx context.Context) {
	if s.roundStore == nil {
		return
	}
	s.roundsMu.Lock()
	defer s.roundsMu.Unlock()

	if err := s.roundStore.Save(ctx, s.tracker.Snapshot()); err != nil {
		s.logger.Error(ctx, "save rounds failed", logger.Error(err))
	}
}

// identifier strips any directory prefix and reconciles the extension.
func (s *Service) identifier(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if raw == "" {
		return "", fmt.Errorf("%w: empty image name", ErrInvalidVote)
	}
	base := filepath.Base(raw)
	if base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: bad image name %q", ErrInvalidVote, raw)
	}
	return s.gallery.Resolve(ctx, base), nil
}

func (s *Service) ratingOf(r model.Ratings, id string) int {
	if v, ok := r[id]; ok {
		return v
	}
	return s.engine.InitialRating()
}

func (s *Service) result(v types.Vote, a, b string, ra, rb int, dup bool) types.Result {
	msg := fmt.Sprintf("Elo updated! %s: %d, %s: %d", a, ra, b, rb)
	if dup {
		msg = fmt.Sprintf("Round already recorded. %s: %d, %s: %d", a, ra, b, rb)
	}
	return types.Result{
		RoundID:   v.RoundID,
		Image1:    a,
		Image2:    b,
		Rating1:   ra,
		Rating2:   rb,
		Outcome:   v.Outcome,
		Duplicate: dup,
		Message:   msg,
	}
}

func (s *Service) release(ctx context.Context, roundID string) {
	if roundID != "" {
		s.tracker.Release(ctx, roundID)
	}
}

func (s *Service) commitFailed(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "commit failed", logger.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

// loadRatings treats a missing document as empty.
func (s *Service) loadRatings(ctx context.Context) (model.Ratings, error) {
	r, err := s.ratings.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Ratings{}, nil
	}
	return r, err
}

// loadLedger treats a missing document as a fresh ledger.
func (s *Service) loadLedger(ctx context.Context) (*model.Ledger, error) {
	l, err := s.ledger.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.NewLedger(), nil
	}
	return l, err
}
