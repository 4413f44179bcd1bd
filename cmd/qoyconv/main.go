/*
NAME
  qoyconv - converts between PNG/BMP images and the QOY format.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package qoyconv is a command-line converter between PNG/BMP images and the
// QOY format, in either direction.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/utils/logging"
	"golang.org/x/image/bmp"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/qoy"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logPath      = "qoyconv.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logSuppress  = true
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	decode := flag.Bool("decode", false, "decode a .qoy file instead of encoding one")
	in := flag.String("in", "", "input file path")
	out := flag.String("out", "", "output file path")
	channels := flag.Int("channels", 4, "channels to encode with: 3 or 4")
	colorspace := flag.Int("colorspace", 0, "colorspace byte to record in the header: 0 sRGB, 1 linear")
	verbosity := flag.Int("verbosity", int(logging.Info), "log verbosity")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(int8(*verbosity), io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *in == "" || *out == "" {
		log.Fatal("-in and -out are required")
	}

	var err error
	if *decode {
		err = decodeToImage(*in, *out, log)
	} else {
		err = encodeFromImage(*in, *out, uint8(*channels), uint8(*colorspace), log)
	}
	if err != nil {
		log.Fatal("conversion failed", "error", err.Error())
	}
}

// decodeImage dispatches to the stdlib PNG decoder or golang.org/x/image's
// BMP decoder by file extension; BMP's uncompressed layout makes it a
// useful sanity check against PNG's own filtering/compression.
func decodeImage(path string, f *os.File) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Decode(f)
	}
	return png.Decode(f)
}

func encodeImage(path string, f *os.File, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Encode(f, img)
	}
	return png.Encode(f, img)
}

func encodeFromImage(inPath, outPath string, channels, colorspace uint8, log logging.Logger) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := decodeImage(inPath, f)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rgba := toRGBA(img)

	desc := qoy.Descriptor{
		Width:      uint32(width),
		Height:     uint32(height),
		Channels:   channels,
		Colorspace: colorspace,
	}
	encoded, stats, err := qoy.Encode(rgba, desc, 4, qoy.RGBA, log)
	if err != nil {
		return err
	}
	log.Info("encoded image", "path", inPath, "runs", stats.Runs, "literals", stats.Literals888)

	return os.WriteFile(outPath, encoded, 0o644)
}

func decodeToImage(inPath, outPath string, log logging.Logger) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	pixels, desc, err := qoy.Decode(data, 4, qoy.RGBA, log)
	if err != nil {
		return err
	}

	img := &image.NRGBA{
		Pix:    pixels,
		Stride: int(desc.Width) * 4,
		Rect:   image.Rect(0, 0, int(desc.Width), int(desc.Height)),
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeImage(outPath, f, img)
}

// toRGBA flattens any image.Image into a tightly-packed RGBA byte buffer,
// suitable as qoy.Encode's pixel input.
func toRGBA(img image.Image) []byte {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == nrgba.Rect.Dx()*4 && nrgba.Rect.Min == (image.Point{}) {
		return nrgba.Pix
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]byte, width*height*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out[i] = byte(r >> 8)
			out[i+1] = byte(g >> 8)
			out[i+2] = byte(b >> 8)
			out[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return out
}
