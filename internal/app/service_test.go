package service_test

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/picarena/internal/adapters/gallery"
	"github.com/okian/picarena/internal/adapters/repository"
	service "github.com/okian/picarena/internal/app"
	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/internal/domain/pairing"
	"github.com/okian/picarena/internal/domain/rating"
	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type fixture struct {
	dir     string
	images  string
	ratings *repository.FileRatingStore
	ledger  *repository.FileLedgerStore
	gallery *gallery.Gallery
}

func newFixture(t *testing.T, images ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	pics := filepath.Join(dir, "pictures")
	if err := os.Mkdir(pics, 0o700); err != nil {
		t.Fatal(err)
	}
	for _, img := range images {
		if err := os.WriteFile(filepath.Join(pics, img), []byte("img"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return &fixture{
		dir:     dir,
		images:  pics,
		ratings: repository.NewFileRatingStore(filepath.Join(dir, "elo_data.json")),
		ledger:  repository.NewFileLedgerStore(filepath.Join(dir, "stats_data.json")),
		gallery: gallery.New(pics),
	}
}

func (f *fixture) service(opts ...service.Option) *service.Service {
	return service.New(f.gallery, f.ratings, f.ledger, opts...)
}

func (f *fixture) loadRatings(t *testing.T) model.Ratings {
	t.Helper()
	r, err := f.ratings.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func (f *fixture) loadLedger(t *testing.T) *model.Ledger {
	t.Helper()
	l, err := f.ledger.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestService_Start(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh image directory", t, func() {
		f := newFixture(t, "a.png", "b.png", "c.jpeg", "readme.txt")
		svc := f.service()

		Convey("When the service starts", func() {
			err := svc.Start(ctx)

			Convey("Then every eligible image is seeded at 1000", func() {
				So(err, ShouldBeNil)
				So(f.loadRatings(t), ShouldResemble, model.Ratings{"a.png": 1000, "b.png": 1000, "c.jpeg": 1000})
			})

			Convey("Then an empty ledger is written", func() {
				l := f.loadLedger(t)
				So(l.TotalRatings, ShouldEqual, 0)
				So(l.PairsRated, ShouldBeEmpty)
				So(l.ImagesRated, ShouldBeEmpty)
			})
		})
	})

	Convey("Given existing documents with a stale entry", t, func() {
		f := newFixture(t, "a.png", "new.png")
		So(f.ratings.Save(ctx, model.Ratings{"a.png": 1100, "gone.png": 950}), ShouldBeNil)
		So(os.WriteFile(f.ledger.Path(), []byte(`{"total_ratings":4,"images_rated":["a.png","gone.png"],"rating_distribution":{"equal":4},"comparisons_made":9}`), 0o600), ShouldBeNil)

		Convey("When the service starts", func() {
			err := f.service().Start(ctx)

			Convey("Then new images are seeded and old ratings kept", func() {
				So(err, ShouldBeNil)
				So(f.loadRatings(t), ShouldResemble, model.Ratings{"a.png": 1100, "gone.png": 950, "new.png": 1000})
			})

			Convey("Then the ledger is upgraded", func() {
				l := f.loadLedger(t)
				So(l.TotalRatings, ShouldEqual, 4)
				So(l.PairsRated, ShouldNotBeNil)
				So(l.ComparisonsMade, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a malformed rating document", t, func() {
		f := newFixture(t, "a.png", "b.png")
		So(os.WriteFile(f.ratings.Path(), []byte("{"), 0o600), ShouldBeNil)

		Convey("Then startup fails", func() {
			err := f.service().Start(ctx)
			So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
		})
	})

	Convey("Given a missing image directory", t, func() {
		f := newFixture(t)
		So(os.Remove(f.images), ShouldBeNil)

		Convey("Then startup fails", func() {
			So(f.service().Start(ctx), ShouldNotBeNil)
		})
	})
}

func TestService_NextPair(t *testing.T) {
	ctx := context.Background()

	Convey("Given exactly two images", t, func() {
		f := newFixture(t, "a.png", "b.png")
		svc := f.service(service.WithRoundIDGenerator(func() string { return "round-x" }))

		Convey("Then every round shows both of them", func() {
			for range 20 {
				r, err := svc.NextPair(ctx)
				So(err, ShouldBeNil)
				So(r.RoundID, ShouldEqual, "round-x")
				So(r.Image1, ShouldNotEqual, r.Image2)
				So([]string{r.Image1, r.Image2}, ShouldContain, "a.png")
				So([]string{r.Image1, r.Image2}, ShouldContain, "b.png")
			}
		})
	})

	Convey("Given the default round ID source", t, func() {
		f := newFixture(t, "a.png", "b.png")
		svc := f.service()

		Convey("Then round IDs are unique", func() {
			r1, err := svc.NextPair(ctx)
			So(err, ShouldBeNil)
			r2, err := svc.NextPair(ctx)
			So(err, ShouldBeNil)
			So(r1.RoundID, ShouldNotBeEmpty)
			So(r1.RoundID, ShouldNotEqual, r2.RoundID)
		})
	})

	Convey("Given fewer than two images", t, func() {
		for _, imgs := range [][]string{nil, {"solo.png"}} {
			f := newFixture(t, imgs...)
			_, err := f.service().NextPair(ctx)
			So(errors.Is(err, service.ErrInsufficientImages), ShouldBeTrue)
		}
	})
}

func TestService_Rate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with three images", t, func() {
		f := newFixture(t, "a.png", "b.png", "cat.jpeg")
		svc := f.service()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When picture 1 is voted much better", func() {
			res, err := svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter})

			Convey("Then the new ratings are returned and stored", func() {
				So(err, ShouldBeNil)
				So(res.Rating1, ShouldEqual, 1016)
				So(res.Rating2, ShouldEqual, 984)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Message, ShouldEqual, "Elo updated! a.png: 1016, b.png: 984")
				r := f.loadRatings(t)
				So(r["a.png"], ShouldEqual, 1016)
				So(r["b.png"], ShouldEqual, 984)
			})

			Convey("Then the ledger records the comparison", func() {
				l := f.loadLedger(t)
				So(l.TotalRatings, ShouldEqual, 1)
				So(l.ImagesRated, ShouldResemble, []string{"a.png", "b.png"})
				So(l.PairsRated, ShouldResemble, []string{"0-1"})
				So(l.ComparisonsMade, ShouldEqual, 1)
				So(l.Distribution.Count(model.Pic1MuchBetter), ShouldEqual, 1)
			})
		})

		Convey("When the names carry a path and a mismatched extension", func() {
			res, err := svc.Rate(ctx, types.Vote{Image1: "pictures/cat.jpg", Image2: `C:\pics\b.png`, Outcome: model.Pic2SlightlyBetter})

			Convey("Then they are reconciled to the files on disk", func() {
				So(err, ShouldBeNil)
				So(res.Image1, ShouldEqual, "cat.jpeg")
				So(res.Image2, ShouldEqual, "b.png")
				So(res.Rating1, ShouldEqual, 990)
				So(res.Rating2, ShouldEqual, 1010)
				So(f.loadLedger(t).PairsRated, ShouldResemble, []string{"1-2"})
			})
		})

		Convey("When an image is not on disk", func() {
			res, err := svc.Rate(ctx, types.Vote{Image1: "ghost.png", Image2: "a.png", Outcome: model.Equal})

			Convey("Then it is rated as a new image without a pair key", func() {
				So(err, ShouldBeNil)
				So(res.Rating1, ShouldEqual, 1000)
				So(f.loadRatings(t), ShouldContainKey, "ghost.png")
				l := f.loadLedger(t)
				So(l.ImagesRated, ShouldContain, "ghost.png")
				So(l.PairsRated, ShouldBeEmpty)
				So(l.TotalRatings, ShouldEqual, 1)
			})
		})

		Convey("When both names resolve to the same image", func() {
			_, err := svc.Rate(ctx, types.Vote{Image1: "cat.jpeg", Image2: "cat.jpg", Outcome: model.Equal})

			Convey("Then the vote is rejected", func() {
				So(errors.Is(err, service.ErrInvalidVote), ShouldBeTrue)
				So(f.loadLedger(t).TotalRatings, ShouldEqual, 0)
			})
		})

		Convey("When the outcome or a name is invalid", func() {
			_, errOutcome := svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "b.png", Outcome: model.Outcome(7)})
			_, errName := svc.Rate(ctx, types.Vote{Image1: " ", Image2: "b.png", Outcome: model.Equal})

			Convey("Then the vote is rejected", func() {
				So(errors.Is(errOutcome, service.ErrInvalidVote), ShouldBeTrue)
				So(errors.Is(errOutcome, model.ErrUnknownOutcome), ShouldBeTrue)
				So(errors.Is(errName, service.ErrInvalidVote), ShouldBeTrue)
			})
		})

		Convey("When the same round is submitted twice", func() {
			vote := types.Vote{RoundID: "r-1", Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter}
			first, err := svc.Rate(ctx, vote)
			So(err, ShouldBeNil)
			second, err := svc.Rate(ctx, vote)

			Convey("Then the second submission is not applied", func() {
				So(err, ShouldBeNil)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Rating1, ShouldEqual, first.Rating1)
				So(second.Rating2, ShouldEqual, first.Rating2)
				So(f.loadLedger(t).TotalRatings, ShouldEqual, 1)
			})
		})

		Convey("When votes without a round ID repeat", func() {
			vote := types.Vote{Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter}
			_, err := svc.Rate(ctx, vote)
			So(err, ShouldBeNil)
			_, err = svc.Rate(ctx, vote)
			So(err, ShouldBeNil)

			Convey("Then each one counts", func() {
				l := f.loadLedger(t)
				So(l.TotalRatings, ShouldEqual, 2)
				So(l.ComparisonsMade, ShouldEqual, 1)
			})
		})
	})

	Convey("Given many random votes", t, func() {
		images := []string{"a.png", "b.png", "c.png", "d.jpg", "e.jpeg", "f.png"}
		f := newFixture(t, images...)
		svc := f.service(service.WithSelector(pairing.NewSelector(f.gallery, pairing.WithSeed(5))))
		So(svc.Start(ctx), ShouldBeNil)
		rng := rand.New(rand.NewPCG(5, 6))
		outcomes := model.Outcomes()

		Convey("Then comparisons made always equals the unique pair count", func() {
			for range 60 {
				round, err := svc.NextPair(ctx)
				So(err, ShouldBeNil)
				_, err = svc.Rate(ctx, types.Vote{
					RoundID: round.RoundID,
					Image1:  round.Image1,
					Image2:  round.Image2,
					Outcome: outcomes[rng.IntN(len(outcomes))],
				})
				So(err, ShouldBeNil)
				l := f.loadLedger(t)
				So(l.ComparisonsMade, ShouldEqual, len(l.PairsRated))
			}
			l := f.loadLedger(t)
			So(l.TotalRatings, ShouldEqual, 60)
			So(len(l.PairsRated), ShouldBeLessThanOrEqualTo, types.PossiblePairs(len(images)))
			So(l.Distribution.Total(), ShouldEqual, 60)
		})
	})
}

// flakyRatings fails the first save after armed is set.
type flakyRatings struct {
	repository.RatingStore
	mu    sync.Mutex
	armed bool
}

func (s *flakyRatings) Save(ctx context.Context, r model.Ratings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		s.armed = false
		return errors.New("disk full")
	}
	return s.RatingStore.Save(ctx, r)
}

func TestService_CommitFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a rating store that fails once", t, func() {
		f := newFixture(t, "a.png", "b.png")
		store := &flakyRatings{RatingStore: f.ratings}
		svc := service.New(f.gallery, store, f.ledger)
		So(svc.Start(ctx), ShouldBeNil)
		store.armed = true

		vote := types.Vote{RoundID: "r-9", Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter}

		Convey("When a vote is submitted", func() {
			_, err := svc.Rate(ctx, vote)

			Convey("Then the failure is returned and the ledger is untouched", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "service.commit")
				So(f.loadLedger(t).TotalRatings, ShouldEqual, 0)
			})

			Convey("Then the round can be retried", func() {
				res, err := svc.Rate(ctx, vote)
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Rating1, ShouldEqual, 1016)
			})
		})
	})
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with rated images", t, func() {
		f := newFixture(t, "a.png", "b.png")
		svc := f.service(service.WithResetSecret("hunter2"))
		So(svc.Start(ctx), ShouldBeNil)
		So(f.ratings.Save(ctx, model.Ratings{"a.png": 1016, "b.png": 984, "gone.png": 1200}), ShouldBeNil)
		_, err := svc.Rate(ctx, types.Vote{RoundID: "r-1", Image1: "a.png", Image2: "b.png", Outcome: model.Equal})
		So(err, ShouldBeNil)

		Convey("When reset with the wrong secret", func() {
			ok, err := svc.Reset(ctx, "guess")

			Convey("Then it is rejected and nothing changes", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(f.loadLedger(t).TotalRatings, ShouldEqual, 1)
				So(f.loadRatings(t), ShouldContainKey, "gone.png")
			})
		})

		Convey("When reset with the right secret", func() {
			ok, err := svc.Reset(ctx, "hunter2")

			Convey("Then both documents start over", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(f.loadRatings(t), ShouldResemble, model.Ratings{"a.png": 1000, "b.png": 1000})
				So(f.loadLedger(t), ShouldResemble, model.NewLedger())
			})

			Convey("Then earlier round IDs may be used again", func() {
				res, err := svc.Rate(ctx, types.Vote{RoundID: "r-1", Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter})
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
			})
		})
	})

	Convey("Given a service without a reset secret", t, func() {
		f := newFixture(t, "a.png", "b.png")
		svc := f.service()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then every reset is rejected, even an empty one", func() {
			ok, err := svc.Reset(ctx, "")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestService_ReadModels(t *testing.T) {
	ctx := context.Background()

	Convey("Given stored ratings with ties and a stale entry", t, func() {
		f := newFixture(t, "a.png", "b.png", "c.png", "d.png")
		svc := f.service(service.WithEngine(rating.NewEngine()))
		So(f.ratings.Save(ctx, model.Ratings{"a.png": 1000, "b.png": 1040, "c.png": 1000, "d.png": 960, "old.png": 1100}), ShouldBeNil)

		Convey("When the full leaderboard is requested", func() {
			entries, err := svc.Leaderboard(ctx, 0)

			Convey("Then it is ordered by rating then name", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldResemble, []types.Entry{
					{Rank: 1, Image: "old.png", Rating: 1100, Present: false},
					{Rank: 2, Image: "b.png", Rating: 1040, Present: true},
					{Rank: 3, Image: "a.png", Rating: 1000, Present: true},
					{Rank: 4, Image: "c.png", Rating: 1000, Present: true},
					{Rank: 5, Image: "d.png", Rating: 960, Present: true},
				})
			})
		})

		Convey("When a limit is given", func() {
			entries, err := svc.Leaderboard(ctx, 2)

			Convey("Then only the top entries are returned", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[1].Image, ShouldEqual, "b.png")
			})
		})

		Convey("When a single rank is requested", func() {
			e, err := svc.Rank(ctx, "c.jpg")

			Convey("Then the name is reconciled first", func() {
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 4)
				So(e.Image, ShouldEqual, "c.png")
			})
		})

		Convey("When an unknown image is requested", func() {
			_, err := svc.Rank(ctx, "nobody.png")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When stats are requested after some votes", func() {
			_, err := svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "c.png", Outcome: model.Equal})
			So(err, ShouldBeNil)
			_, err = svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "d.png", Outcome: model.Pic1MuchBetter})
			So(err, ShouldBeNil)
			_, err = svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "d.png", Outcome: model.Pic1MuchBetter})
			So(err, ShouldBeNil)
			_, err = svc.Rate(ctx, types.Vote{Image1: "c.png", Image2: "a.png", Outcome: model.Equal})
			So(err, ShouldBeNil)
			s, err := svc.Stats(ctx)

			Convey("Then totals, coverage and distribution follow", func() {
				So(err, ShouldBeNil)
				So(s.TotalRatings, ShouldEqual, 4)
				So(s.TotalImages, ShouldEqual, 4)
				So(s.ImagesRated, ShouldEqual, 3)
				So(s.ComparisonsMade, ShouldEqual, 2)
				So(s.PossibleComparisons, ShouldEqual, 6)
				So(s.Distribution, ShouldHaveLength, 5)
				So(s.Distribution[0].Label, ShouldEqual, "Pic 1 Much Better")
				So(s.Distribution[0].Count, ShouldEqual, 2)
				So(s.Distribution[0].Percent, ShouldEqual, 50)
				So(s.Distribution[2].Percent, ShouldEqual, 50)
				So(s.MaxRating, ShouldEqual, 1100)
				So(s.MinRating, ShouldBeLessThan, 960)
			})
		})
	})

	Convey("Given no documents at all", t, func() {
		f := newFixture(t, "a.png")
		svc := f.service()

		Convey("Then the read models hold the image at the initial rating", func() {
			entries, err := svc.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries, ShouldResemble, []types.Entry{{Rank: 1, Image: "a.png", Rating: 1000, Present: true}})
			So(f.loadRatings(t), ShouldResemble, model.Ratings{"a.png": 1000})

			s, err := svc.Stats(ctx)
			So(err, ShouldBeNil)
			So(s.TotalRatings, ShouldEqual, 0)
			So(s.PossibleComparisons, ShouldEqual, 0)
			So(s.MinRating, ShouldEqual, 1000)
			So(s.MaxRating, ShouldEqual, 1000)
			for _, b := range s.Distribution {
				So(b.Percent, ShouldEqual, 0)
			}
		})
	})
}

func TestService_ImagesAddedWhileRunning(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		f := newFixture(t, "a.png", "b.png")
		svc := f.service()
		So(svc.Start(ctx), ShouldBeNil)
		_, err := svc.Rate(ctx, types.Vote{Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter})
		So(err, ShouldBeNil)

		Convey("When a picture is dropped into the directory", func() {
			So(os.WriteFile(filepath.Join(f.images, "new.png"), []byte("img"), 0o600), ShouldBeNil)

			Convey("Then the leaderboard lists it at the initial rating", func() {
				entries, err := svc.Leaderboard(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldResemble, []types.Entry{
					{Rank: 1, Image: "a.png", Rating: 1016, Present: true},
					{Rank: 2, Image: "new.png", Rating: 1000, Present: true},
					{Rank: 3, Image: "b.png", Rating: 984, Present: true},
				})
				So(f.loadRatings(t), ShouldResemble, model.Ratings{"a.png": 1016, "b.png": 984, "new.png": 1000})
			})

			Convey("Then its rank can be read", func() {
				e, err := svc.Rank(ctx, "new.png")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.Rating, ShouldEqual, 1000)
			})

			Convey("Then stats count it and store it", func() {
				s, err := svc.Stats(ctx)
				So(err, ShouldBeNil)
				So(s.TotalImages, ShouldEqual, 3)
				So(s.PossibleComparisons, ShouldEqual, 3)
				So(s.MinRating, ShouldEqual, 984)
				So(s.MaxRating, ShouldEqual, 1016)
				So(f.loadRatings(t), ShouldContainKey, "new.png")
			})
		})
	})
}

func TestService_RoundStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service that keeps round IDs on disk", t, func() {
		f := newFixture(t, "a.png", "b.png")
		rounds := repository.NewFileRoundStore(filepath.Join(f.dir, "rounds_data.json"))
		svc := f.service(service.WithRoundStore(rounds), service.WithResetSecret("hunter2"))
		So(svc.Start(ctx), ShouldBeNil)

		vote := types.Vote{RoundID: "r-1", Image1: "a.png", Image2: "b.png", Outcome: model.Pic1MuchBetter}
		_, err := svc.Rate(ctx, vote)
		So(err, ShouldBeNil)

		Convey("Then the committed round is written", func() {
			ids, err := rounds.Load(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"r-1"})
		})

		Convey("When a new service over the same files gets the round again", func() {
			again := f.service(service.WithRoundStore(rounds))
			So(again.Start(ctx), ShouldBeNil)
			res, err := again.Rate(ctx, vote)

			Convey("Then it is not applied", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeTrue)
				So(res.Rating1, ShouldEqual, 1016)
				So(res.Rating2, ShouldEqual, 984)
				So(res.Message, ShouldEqual, "Round already recorded. a.png: 1016, b.png: 984")
				So(f.loadLedger(t).TotalRatings, ShouldEqual, 1)
			})
		})

		Convey("When the service is reset", func() {
			ok, err := svc.Reset(ctx, "hunter2")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Then the stored rounds are cleared", func() {
				ids, err := rounds.Load(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldBeEmpty)
			})
		})

		Convey("When a vote fails validation", func() {
			_, err := svc.Rate(ctx, types.Vote{RoundID: "r-2", Image1: "a.png", Image2: "a.png", Outcome: model.Equal})
			So(errors.Is(err, service.ErrInvalidVote), ShouldBeTrue)

			Convey("Then its round is not stored", func() {
				ids, err := rounds.Load(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"r-1"})
			})
		})
	})

	Convey("Given a malformed round document", t, func() {
		f := newFixture(t, "a.png", "b.png")
		path := filepath.Join(f.dir, "rounds_data.json")
		So(os.WriteFile(path, []byte("{oops"), 0o600), ShouldBeNil)
		svc := f.service(service.WithRoundStore(repository.NewFileRoundStore(path)))

		Convey("Then Start fails", func() {
			err := svc.Start(ctx)
			So(errors.Is(err, repository.ErrCorrupt), ShouldBeTrue)
		})
	})
}

func TestService_OpenImage(t *testing.T) {
	ctx := context.Background()

	Convey("Given an image on disk", t, func() {
		f := newFixture(t, "cat.jpeg")
		svc := f.service()

		Convey("Then it opens by a mismatched name", func() {
			file, name, err := svc.OpenImage(ctx, "cat.jpg")
			So(err, ShouldBeNil)
			defer file.Close()
			So(name, ShouldEqual, "cat.jpeg")
		})

		Convey("Then a missing image is not found", func() {
			_, _, err := svc.OpenImage(ctx, "dog.png")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})
	})
}
