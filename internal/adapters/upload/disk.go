// Package upload stores client image uploads on local disk.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Stored describes a file accepted by the sink.
type Stored struct {
	Name        string
	Size        int64
	ContentType string
}

// Sink persists uploads and resolves previously stored names.
type Sink interface {
	Save(ctx context.Context, filename string, r io.Reader) (Stored, error)
	Path(name string) (string, error)
}

// DiskSink writes uploads into a single directory under generated names.
type DiskSink struct {
	dir      string
	maxBytes int64
	allowed  []string
	newName  func() string
}

var _ Sink = (*DiskSink)(nil)

// NewDiskSink creates the upload directory if needed and returns a sink writing into it.
func NewDiskSink(dir string, opts ...Option) (*DiskSink, error) {
	s := &DiskSink{
		dir:      dir,
		maxBytes: DefaultMaxBytes,
		allowed:  append([]string(nil), DefaultAllowedTypes...),
		newName:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if strings.TrimSpace(s.dir) == "" {
		return nil, fmt.Errorf("%w: empty upload dir", ErrStorage)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return s, nil
}

// Dir returns the directory uploads are written to.
func (s *DiskSink) Dir() string { return s.dir }

// MaxBytes returns the largest accepted upload.
func (s *DiskSink) MaxBytes() int64 { return s.maxBytes }

// Save validates r against the content type allow-list and size limit, then writes
// it as <uuid><ext>. Nothing is left on disk when Save fails.
func (s *DiskSink) Save(ctx context.Context, filename string, r io.Reader) (stored Stored, err error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}

	limited := io.LimitReader(r, s.maxBytes+1)
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(limited, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Stored{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	head = head[:n]
	if n == 0 {
		return Stored{}, ErrEmpty
	}

	mtype := mimetype.Detect(head)
	if !s.accepts(mtype) {
		return Stored{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, mtype.String(), filepath.Base(filename))
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer func() {
		if cerr := tmp.Close(); cerr != nil && err == nil && !errors.Is(cerr, os.ErrClosed) {
			err = fmt.Errorf("%w: %w", ErrStorage, cerr)
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	size, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), contextReader{ctx: ctx, r: limited}))
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if size > s.maxBytes {
		return Stored{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxBytes)
	}
	if err := tmp.Close(); err != nil {
		return Stored{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	name := s.newName() + mtype.Extension()
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return Stored{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return Stored{Name: name, Size: size, ContentType: mtype.String()}, nil
}

// Path resolves a stored name to a regular file inside the upload directory.
func (s *DiskSink) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return p, nil
}

func (s *DiskSink) accepts(mtype *mimetype.MIME) bool {
	for _, a := range s.allowed {
		if mtype.Is(a) {
			return true
		}
	}
	return false
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
