package config

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	convey.Convey("Given a fresh config", t, func() {
		cfg := New()

		convey.Convey("It carries the documented defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.ExportDir, convey.ShouldEqual, "export")
			convey.So(cfg.Tolerance, convey.ShouldEqual, 0.0005)
			convey.So(cfg.AngularTolerance, convey.ShouldEqual, 0.05)
			convey.So(cfg.StemType, convey.ShouldEqual, "alps")
			convey.So(cfg.ScoopStyle, convey.ShouldEqual, "dish")
		})

		convey.Convey("The defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := New()

		convey.Convey("An empty export dir is rejected", func() {
			cfg.ExportDir = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("A non-positive tolerance is rejected", func() {
			cfg.Tolerance = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("A non-positive angular tolerance is rejected", func() {
			cfg.AngularTolerance = -1
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
