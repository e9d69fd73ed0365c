package pairing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/picarena/internal/domain/pairing"
	. "github.com/smartystreets/goconvey/convey"
)

type staticLister struct {
	images []string
	err    error
}

func (l staticLister) List(context.Context) ([]string, error) {
	return l.images, l.err
}

func TestSelector(t *testing.T) {
	ctx := context.Background()

	Convey("Given exactly two images", t, func() {
		s := pairing.NewSelector(staticLister{images: []string{"a.png", "b.png"}}, pairing.WithSeed(3))

		Convey("Then every pair contains both of them", func() {
			for range 50 {
				a, b, err := s.Select(ctx)
				So(err, ShouldBeNil)
				So(a, ShouldNotEqual, b)
				So([]string{a, b}, ShouldContain, "a.png")
				So([]string{a, b}, ShouldContain, "b.png")
			}
		})
	})

	Convey("Given a larger pool", t, func() {
		pool := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
		s := pairing.NewSelector(staticLister{images: pool}, pairing.WithSeed(9))

		Convey("Then picks are distinct and every image is eventually shown", func() {
			seen := map[string]int{}
			for range 500 {
				a, b, err := s.Select(ctx)
				So(err, ShouldBeNil)
				So(a, ShouldNotEqual, b)
				seen[a]++
				seen[b]++
			}
			So(seen, ShouldHaveLength, len(pool))
		})

		Convey("Then the same seed gives the same sequence", func() {
			other := pairing.NewSelector(staticLister{images: pool}, pairing.WithSeed(9))
			for range 20 {
				a1, b1, _ := s.Select(ctx)
				a2, b2, _ := other.Select(ctx)
				So(a1, ShouldEqual, a2)
				So(b1, ShouldEqual, b2)
			}
		})
	})

	Convey("Given fewer than two images", t, func() {
		for _, pool := range [][]string{nil, {"only.png"}} {
			s := pairing.NewSelector(staticLister{images: pool})
			_, _, err := s.Select(ctx)
			So(errors.Is(err, pairing.ErrInsufficientImages), ShouldBeTrue)
		}
	})

	Convey("Given a failing lister", t, func() {
		boom := errors.New("boom")
		s := pairing.NewSelector(staticLister{err: boom})

		Convey("Then the error is wrapped", func() {
			_, _, err := s.Select(ctx)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		s := pairing.NewSelector(staticLister{images: []string{"a.png", "b.png"}})

		Convey("Then nothing is selected", func() {
			_, _, err := s.Select(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
