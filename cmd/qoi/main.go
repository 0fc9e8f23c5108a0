package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kulaginds/qoi-codec/internal/config"
	"github.com/kulaginds/qoi-codec/internal/imaging"
	"github.com/kulaginds/qoi-codec/internal/logging"
	"github.com/kulaginds/qoi-codec/qoi"
)

const (
	appName    = "qoi"
	appVersion = "v1.0.0"
)

func main() {
	outFlag := flag.String("o", "", "output file path")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	colorspaceFlag := flag.Int("colorspace", 1, "colorspace header flag: 0=sRGB, 1=linear")
	helpFlag := flag.Bool("help", false, "show help")
	versionFlag := flag.Bool("version", false, "show version")

	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *versionFlag {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	if flag.NArg() != 1 {
		showHelp()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	colorspaceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "colorspace" {
			colorspaceSet = true
		}
	})

	cfg, err := config.LoadWithOverrides(config.LoadOptions{
		LogLevel:      strings.TrimSpace(*logLevelFlag),
		Colorspace:    *colorspaceFlag,
		ColorspaceSet: colorspaceSet,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.SetLevelFromString(cfg.Logging.Level)

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

	if strings.EqualFold(filepath.Ext(inputPath), ".qoi") {
		outPath := *outFlag
		if outPath == "" {
			outPath = base + ".png"
		}
		if err := decodeFile(inputPath, outPath); err != nil {
			logging.Error("decode %s: %v", inputPath, err)
			os.Exit(1)
		}
		return
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = base + ".qoi"
	}
	if err := encodeFile(inputPath, outPath, uint8(cfg.Encode.Colorspace)); err != nil {
		logging.Error("encode %s: %v", inputPath, err)
		os.Exit(1)
	}
}

func encodeFile(inPath, outPath string, colorspace uint8) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("read %s image: %w", format, err)
	}

	pixels, width, height := imaging.FromImage(img)
	logging.Debug("flattened %s: %dx%d, %d pixels", inPath, width, height, len(pixels))

	data, err := qoi.EncodeColorspace(pixels, width, height, colorspace)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	logging.Info("encoded %s -> %s (%d bytes)", inPath, outPath, len(data))
	return nil
}

func decodeFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		// An absent input is an error, never an empty substitute image.
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", qoi.ErrNoInput, inPath)
		}
		return err
	}

	hdr, pixels, err := qoi.Decode(data)
	if err != nil {
		return err
	}

	img := imaging.ToImage(int(hdr.Width), int(hdr.Height), pixels)
	if img == nil {
		return fmt.Errorf("decoded pixel count does not match %dx%d", hdr.Width, hdr.Height)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return err
	}

	logging.Info("decoded %s -> %s (%dx%d)", inPath, outPath, hdr.Width, hdr.Height)
	return nil
}

func showHelp() {
	fmt.Printf(`%s %s - lossless image converter

Usage:
  qoi [flags] <input>

An input ending in .qoi is decoded to PNG; any other readable raster
image (PNG, JPEG, GIF) is encoded to .qoi.

Flags:
`, appName, appVersion)
	flag.PrintDefaults()
}
