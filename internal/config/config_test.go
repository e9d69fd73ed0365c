package config_test

import (
	"errors"
	"testing"

	"github.com/okian/picarena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":7860")
			convey.So(cfg.ImagesDir, convey.ShouldEqual, "pictures")
			convey.So(cfg.RatingsFile, convey.ShouldEqual, "elo_data.json")
			convey.So(cfg.StatsFile, convey.ShouldEqual, "stats_data.json")
			convey.So(cfg.RoundsFile, convey.ShouldEqual, "rounds_data.json")
			convey.So(cfg.KFactor, convey.ShouldEqual, 32)
			convey.So(cfg.InitialRating, convey.ShouldEqual, 1000)
			convey.So(cfg.TieScoring, convey.ShouldEqual, "symmetric")
			convey.So(cfg.ResetSecret, convey.ShouldBeEmpty)
			convey.So(cfg.Extensions, convey.ShouldResemble, []string{".png", ".jpg", ".jpeg"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting", t, func() {
		cases := map[string]func(*config.Config){
			"addr":                  func(c *config.Config) { c.Addr = " " },
			"images_dir":            func(c *config.Config) { c.ImagesDir = "" },
			"ratings_file":          func(c *config.Config) { c.RatingsFile = "" },
			"stats_file":            func(c *config.Config) { c.StatsFile = "" },
			"k_factor":              func(c *config.Config) { c.KFactor = 0 },
			"tie_scoring":           func(c *config.Config) { c.TieScoring = "coinflip" },
			"extensions":            func(c *config.Config) { c.Extensions = nil },
			"max_leaderboard_limit": func(c *config.Config) { c.MaxLeaderboardLimit = -1 },
		}

		for key, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key)
		}
	})
}
