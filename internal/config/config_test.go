package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/prosegauge/prosegauge/internal/config"
)

func TestDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":8090")
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.DedupeSize, ShouldEqual, 50_000)
			So(cfg.MaxSamples, ShouldEqual, 10_000)
			So(cfg.MaxBatchSize, ShouldEqual, 32)
			So(cfg.MaxTextBytes, ShouldEqual, 1<<20)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROSEGAUGE_ADDR", ":9999")
	t.Setenv("PROSEGAUGE_QUEUE_SIZE", "128")
	t.Setenv("PROSEGAUGE_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the environment wins over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9999")
			So(cfg.QueueSize, ShouldEqual, 128)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.MaxBatchSize, ShouldEqual, 32)
		})
	})
}

func TestFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":7070\"\nworker_count: 3\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.LoadFile(context.Background(), path)

		Convey("Then file values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.WorkerCount, ShouldEqual, 3)
			So(cfg.QueueSize, ShouldEqual, 10_000)
		})
	})
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROSEGAUGE_CONFIG", path)
	t.Setenv("PROSEGAUGE_ADDR", ":6060")

	Convey("Given both a file and an environment override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the environment takes precedence", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})
	})
}

func TestValidation(t *testing.T) {
	t.Setenv("PROSEGAUGE_QUEUE_SIZE", "0")

	Convey("Given an invalid queue size", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the invalid-config kind", func() {
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}

func TestMissingFile(t *testing.T) {
	Convey("Given a path to a file that does not exist", t, func() {
		_, err := config.LoadFile(context.Background(), "/nonexistent/config.yaml")

		Convey("Then loading fails with the load kind", func() {
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}
