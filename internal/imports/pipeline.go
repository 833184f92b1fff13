// Package imports registers user-supplied files as database tables.
package imports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/leapbench/internal/adapter"
)

// Batch defaults.
const (
	DefaultMaxFiles = 10
	DefaultSizeHint = 5 * 1000 * 1000
)

// Per-file rejection reasons.
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooManyFiles    = errors.New("too many files")
)

// File is one file handed to the pipeline.
type File struct {
	Name string
	Size int64
	// Path is set when the content already lives on the local disk.
	Path string
	Open func() (io.ReadCloser, error)
}

// FromPath describes a local file.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromPaths describes local files. Paths that cannot be read become failed
// outcomes instead of files.
func FromPaths(paths []string) ([]File, []Outcome) {
	files := make([]File, 0, len(paths))
	var failed []Outcome
	for _, p := range paths {
		f, err := FromPath(p)
		if err != nil {
			failed = append(failed, Outcome{File: p, Table: TableName(filepath.Base(p)), Status: StatusFailed, Err: err})
			continue
		}
		files = append(files, f)
	}
	return files, failed
}

// FromBytes describes in-memory content.
func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// FromMultipart describes an uploaded form file.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Registrar creates a table from a local file.
type Registrar interface {
	Insert(ctx context.Context, table string, src adapter.Source) error
}

// Status is the result of importing one file.
type Status string

// Outcome statuses.
const (
	StatusImported Status = "imported"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome reports what happened to one file.
type Outcome struct {
	File     string
	Table    string
	Size     int64
	Status   Status
	Oversize bool
	Err      error
}

// Message is a one-line human summary.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusImported:
		return fmt.Sprintf("%s → %s (%s)", o.File, o.Table, humanize.Bytes(uint64(max(o.Size, 0))))
	default:
		return fmt.Sprintf("%s: %v", o.File, o.Err)
	}
}

// Config holds pipeline settings.
type Config struct {
	// MaxFiles caps a batch; extra files are rejected. Defaults to 10.
	MaxFiles int
	// SizeHint is advisory: larger files are imported with a warning. Defaults to 5 MB.
	SizeHint int64
	// SpoolDir holds decompressed and uploaded content while DuckDB reads it.
	// Defaults to the OS temp dir.
	SpoolDir string
	Logger   *slog.Logger
}

// Pipeline imports batches of files through a Registrar.
type Pipeline struct {
	registrar Registrar
	cfg       Config
	logger    *slog.Logger
}

// New creates a Pipeline. A nil registrar makes every import a logged no-op.
func New(registrar Registrar, cfg Config) *Pipeline {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if cfg.SizeHint <= 0 {
		cfg.SizeHint = DefaultSizeHint
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{registrar: registrar, cfg: cfg, logger: logger}
}

// Description is the user-facing summary of what the pipeline accepts.
func (p *Pipeline) Description() string {
	return fmt.Sprintf(".csv, .parquet or .arrow up to %s (also .csv.gz, .csv.zst, .csv.xz, .xlsx)",
		humanize.Bytes(uint64(p.cfg.SizeHint)))
}

// MaxFiles returns the batch cap.
func (p *Pipeline) MaxFiles() int {
	return p.cfg.MaxFiles
}

// Import registers each file as a table named after it. Files are handled in
// order and independently: a failure is logged and recorded in that file's
// outcome without stopping the batch.
func (p *Pipeline) Import(ctx context.Context, files []File) ([]Outcome, error) {
	if p.registrar == nil {
		p.logger.Warn("no database instance, skipping import", "files", len(files))
		return nil, nil
	}

	outcomes := make([]Outcome, 0, len(files))
	for i, f := range files {
		o := Outcome{File: f.Name, Table: TableName(f.Name), Size: f.Size}

		if i >= p.cfg.MaxFiles {
			o.Status, o.Err = StatusRejected, ErrTooManyFiles
			p.logger.Warn("rejected file", "file", f.Name, "error", o.Err)
			outcomes = append(outcomes, o)
			continue
		}

		if err := ctx.Err(); err != nil {
			o.Status, o.Err = StatusFailed, err
			outcomes = append(outcomes, o)
			continue
		}

		ft, ok := Detect(f.Name)
		if !ok {
			o.Status, o.Err = StatusRejected, ErrUnsupportedType
			p.logger.Warn("rejected file", "file", f.Name, "error", o.Err)
			outcomes = append(outcomes, o)
			continue
		}

		if f.Size > p.cfg.SizeHint {
			o.Oversize = true
			p.logger.Warn("file exceeds advisory size",
				"file", f.Name,
				"size", humanize.Bytes(uint64(f.Size)),
				"hint", humanize.Bytes(uint64(p.cfg.SizeHint)))
		}

		if err := p.importOne(ctx, f, ft, o.Table); err != nil {
			o.Status, o.Err = StatusFailed, err
			p.logger.Error("failed to import file", "file", f.Name, "table", o.Table, "error", err)
		} else {
			o.Status = StatusImported
			p.logger.Info("imported file", "file", f.Name, "table", o.Table)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func (p *Pipeline) importOne(ctx context.Context, f File, ft FileType, table string) error {
	path := f.Path
	if path == "" || ft.Compression != CompressionNone {
		spooled, err := p.spool(f, ft)
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(spooled) }()
		path = spooled
	}

	if err := p.registrar.Insert(ctx, table, adapter.Source{Format: ft.Format, Path: path}); err != nil {
		return fmt.Errorf("failed to register %s: %w", table, err)
	}
	return nil
}

// spool writes the decompressed content of f to a temporary file.
func (p *Pipeline) spool(f File, ft FileType) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("no content for %s", f.Name)
	}
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	r, err := decompress(ft.Compression, src)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	out, err := os.CreateTemp(p.cfg.SpoolDir, "leapbench-*."+string(ft.Format))
	if err != nil {
		return "", fmt.Errorf("failed to create spool file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to spool %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to spool %s: %w", f.Name, err)
	}
	return out.Name(), nil
}
