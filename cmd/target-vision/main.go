package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/api"
	"github.com/ironsheep/target-vision/internal/config"
	"github.com/ironsheep/target-vision/internal/detection"
	"github.com/ironsheep/target-vision/internal/imaging"
	"github.com/ironsheep/target-vision/internal/logging"
	"github.com/ironsheep/target-vision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("target-vision %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printUsage()
		return
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "http":
		err = runHTTP(args)
	case "detect":
		err = runDetect(args)
	case "mask":
		err = runMask(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("target-vision - find a two-strip vision target in an image")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  target-vision [serve] [-config file.yaml]")
	fmt.Println("  target-vision http [-config file.yaml] [-addr :8080]")
	fmt.Println("  target-vision detect [-config file.yaml] [-overlay out.png] image")
	fmt.Println("  target-vision mask [-config file.yaml] [-preview] image out.png")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  TARGET_VISION_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("serve runs an MCP server over stdin/stdout; http serves a REST API.")
}

// setup parses the common flags, loads config and builds the logger.
func setup(fs *flag.FlagSet, args []string) (*config.Config, *zap.Logger, error) {
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	logger.Info("starting target-vision MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	srv := server.New(cfg, logger)
	srv.SetVersion(Version)
	return srv.Run()
}

func runHTTP(args []string) error {
	fs := flag.NewFlagSet("http", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overriding http.addr")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(cfg, logger, Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting target-vision HTTP server",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("version", Version))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadFrame reads an image and applies the configured working resolution.
func loadFrame(cfg *config.Config, path string) (image.Image, error) {
	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, cfg.Image.ResizeWidth, cfg.Image.ResizeHeight)
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	overlayPath := fs.String("overlay", "", "write the image with detections drawn on it")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	if fs.NArg() != 1 {
		return fmt.Errorf("detect needs exactly one image, got %d", fs.NArg())
	}

	img, err := loadFrame(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	det, err := detection.NewDetector(&cfg.Detection, logger).Detect(context.Background(), img)
	if err != nil {
		return err
	}

	if det.Pair == nil {
		logger.Info("no target pair found", zap.Int("shapes", len(det.Shapes)))
	} else {
		logger.Info("target pair found",
			zap.Int("left", det.Pair.Left),
			zap.Int("right", det.Pair.Right),
			zap.Float64("score", det.Pair.Score))
	}

	if *overlayPath != "" {
		if err := imaging.Save(detection.RenderOverlay(img, det), *overlayPath); err != nil {
			return err
		}
		logger.Info("overlay written", zap.String("path", *overlayPath))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(det)
}

func runMask(args []string) error {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	preview := fs.Bool("preview", false, "write the masked color image instead of the bare mask")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	if fs.NArg() != 2 {
		return fmt.Errorf("mask needs an input image and an output path")
	}

	img, err := loadFrame(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	t := cfg.Detection.Threshold
	mask := detection.PrepareMask(img, t)
	logger.Info("mask built",
		zap.Any("hsv_min", t.Min),
		zap.Any("hsv_max", t.Max),
		zap.Int("foreground_pixels", detection.ForegroundCount(mask)))

	if *preview {
		return imaging.Save(detection.ApplyMask(img, mask), fs.Arg(1))
	}
	return imaging.Save(mask, fs.Arg(1))
}
