package fetcher

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/utils"
)

// Archive format signatures
var (
	magicZip  = []byte{'P', 'K', 0x03, 0x04}
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

const defaultDirMode = 0755

// ExtractOptions controls how archive entries land on disk
type ExtractOptions struct {
	// Strip drops this many leading path elements from every entry.
	// Entries with no elements left are skipped.
	Strip int
	// FileMode is applied to every regular file. Zero keeps the entry mode.
	FileMode os.FileMode
}

// Extractor unpacks zip, tar.gz and tar.zst archives
type Extractor struct {
	fs     afero.Fs
	logger *utils.Logger
}

// ExtractorOptions contains options for creating an Extractor
type ExtractorOptions struct {
	Fs     afero.Fs
	Logger *utils.Logger
}

// NewExtractor creates a new Extractor. A nil Fs means the OS filesystem.
func NewExtractor(opts ExtractorOptions) *Extractor {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Extractor{
		fs:     fs,
		logger: opts.Logger.OrNop().WithComponent("extract"),
	}
}

// Extract detects the archive format from its leading bytes and unpacks it
// into dest.
func (e *Extractor) Extract(r io.ReaderAt, size int64, dest string, opts ExtractOptions) error {
	head := make([]byte, 4)
	n, err := r.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read archive header: %w", err)
	}
	head = head[:n]

	if err := e.fs.MkdirAll(dest, defaultDirMode); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	section := io.NewSectionReader(r, 0, size)

	switch {
	case bytes.HasPrefix(head, magicZip):
		return e.extractZip(r, size, dest, opts)
	case bytes.HasPrefix(head, magicGzip):
		gzr, err := gzip.NewReader(section)
		if err != nil {
			return fmt.Errorf("gzip reader failed: %w", err)
		}
		defer gzr.Close()
		return e.extractTar(gzr, dest, opts)
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(section)
		if err != nil {
			return fmt.Errorf("zstd reader failed: %w", err)
		}
		defer zr.Close()
		return e.extractTar(zr, dest, opts)
	default:
		return domain.ErrUnsupportedArchive
	}
}

func (e *Extractor) extractZip(r io.ReaderAt, size int64, dest string, opts ExtractOptions) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("zip reader failed: %w", err)
	}

	for _, f := range zr.File {
		target, ok := e.target(dest, f.Name, opts.Strip)
		if !ok {
			continue
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := e.fs.MkdirAll(target, defaultDirMode); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}
		case mode.IsRegular():
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", f.Name, err)
			}
			err = e.writeFile(target, rc, fileMode(opts.FileMode, mode))
			rc.Close()
			if err != nil {
				return err
			}
		default:
			e.logger.Debug().Str("entry", f.Name).Msg("Skipping non-regular zip entry")
		}
	}

	return nil
}

func (e *Extractor) extractTar(r io.Reader, dest string, opts ExtractOptions) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar read failed: %w", err)
		}

		target, ok := e.target(dest, header.Name, opts.Strip)
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := e.fs.MkdirAll(target, defaultDirMode); err != nil {
				return fmt.Errorf("mkdir failed: %w", err)
			}
		case tar.TypeReg:
			mode := fileMode(opts.FileMode, os.FileMode(header.Mode).Perm())
			if err := e.writeFile(target, tr, mode); err != nil {
				return err
			}
		default:
			e.logger.Debug().Str("entry", header.Name).Msg("Skipping non-regular tar entry")
		}
	}
}

// target maps an archive entry name to a path under dest. It reports false
// for entries removed by stripping and for entries escaping dest.
func (e *Extractor) target(dest, name string, strip int) (string, bool) {
	rel, ok := stripComponents(name, strip)
	if !ok {
		return "", false
	}

	target := filepath.Join(dest, filepath.FromSlash(rel))
	within, err := filepath.Rel(filepath.Clean(dest), target)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		e.logger.Warn().Str("entry", name).Msg("Skipping entry outside destination")
		return "", false
	}
	return target, true
}

func (e *Extractor) writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := e.fs.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	file, err := e.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	return file.Close()
}

// stripComponents removes n leading elements from a slash separated name
func stripComponents(name string, n int) (string, bool) {
	name = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	if name == "" {
		return "", false
	}

	parts := strings.Split(name, "/")
	if n < 0 {
		n = 0
	}
	if n >= len(parts) {
		return "", false
	}
	return strings.Join(parts[n:], "/"), true
}

func fileMode(override, entry os.FileMode) os.FileMode {
	if override != 0 {
		return override.Perm()
	}
	if entry.Perm() == 0 {
		return 0644
	}
	return entry.Perm()
}
