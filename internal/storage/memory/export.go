// internal/storage/memory/export.go
package memory

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v1 "github.com/simularium/simconv/internal/export/v1"
)

// Compression settings
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// FileExtension is the extension of exported trajectory files.
const FileExtension = ".simularium"

// extensions lists the exported file suffixes in lookup order.
var extensions = []string{FileExtension, FileExtension + ".gz", FileExtension + ".zst"}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func extensionFor(compression string) (string, error) {
	switch strings.ToLower(compression) {
	case "", CompressionNone:
		return extensions[0], nil
	case CompressionGzip:
		return extensions[1], nil
	case CompressionZstd:
		return extensions[2], nil
	default:
		return "", fmt.Errorf("unknown compression: %s", compression)
	}
}

// sanitizeName makes a trajectory name safe to use as a file name.
func sanitizeName(name string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "/", "_", `\`, "_")
	return r.Replace(name)
}

func exportPath(dir, name, ext string) string {
	return filepath.Join(dir, sanitizeName(name)+ext)
}

// exportJSON writes env to the output directory and returns the file path.
func (b *Backend) exportJSON(name string, env *v1.Envelope) (string, error) {
	ext, err := extensionFor(b.cfg.Compression)
	if err != nil {
		return "", err
	}
	outputPath := exportPath(b.cfg.OutputDir, name, ext)

	switch ext {
	case extensions[1]:
		err = writeGzipJSON(outputPath, env)
	case extensions[2]:
		err = writeZstdJSON(outputPath, env)
	default:
		err = writeJSON(outputPath, env)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

func writeJSON(path string, env *v1.Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := v1.Encode(f, env); err != nil {
		return err
	}
	return f.Close()
}

func writeGzipJSON(path string, env *v1.Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if err := v1.Encode(gw, env); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return f.Close()
}

func writeZstdJSON(path string, env *v1.Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := v1.Encode(zw, env); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return f.Close()
}

// ReadFile reads an envelope from a plain, gzip or zstd compressed JSON file.
// The compression is detected from the file contents, not its name.
func ReadFile(path string) (*v1.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	env, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// Read decodes an envelope from r, decompressing gzip or zstd input.
func Read(r io.Reader) (*v1.Envelope, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gr.Close()
		return v1.Decode(gr)
	case bytes.Equal(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		return v1.Decode(zr)
	default:
		return v1.Decode(br)
	}
}
