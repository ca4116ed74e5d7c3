package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"filelist-diff/core/fault"
	"filelist-diff/core/storage"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the encoding label assumed when none is configured.
const DefaultEncoding = "utf-8"

// Opener opens manifest locations as line streams.
type Opener struct {
	// Storage serves s3:// locations. Nil disables them.
	Storage storage.Client
	// Encoding is the WHATWG label of the input text encoding.
	Encoding string
}

// Check verifies that location exists and can be opened as a manifest,
// without reading it.
func (o Opener) Check(ctx context.Context, location string) error {
	if _, err := o.decoder(); err != nil {
		return err
	}

	if storage.IsURI(location) {
		bucket, key, err := o.object(location)
		if err != nil {
			return err
		}
		if _, err := o.Storage.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
			return fault.NewArgument("check", location, fmt.Errorf("%w: %w", fault.ErrInputMissing, err))
		}
		return nil
	}

	info, err := os.Stat(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fault.NewArgument("check", location, fault.ErrInputMissing)
		}
		return fault.NewResource("check", location, fmt.Errorf("%w: %w", fault.ErrOpen, unwrapPath(err)))
	}
	if !info.Mode().IsRegular() {
		return fault.NewArgument("check", location, fmt.Errorf("%w: not a regular file", fault.ErrInputMissing))
	}
	return nil
}

// Open returns a LineReader over location, decompressing and decoding as needed.
func (o Opener) Open(ctx context.Context, location string) (*LineReader, error) {
	// Resolve the encoding first so a bad label fails before anything is opened
	dec, err := o.decoder()
	if err != nil {
		return nil, err
	}

	raw, err := o.openRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	// Layering: raw bytes -> decompression (by extension) -> charset decoding -> lines
	rc, err := decompress(location, raw)
	if err != nil {
		_ = raw.Close()
		return nil, fault.NewResource("open", location, fmt.Errorf("%w: %w", fault.ErrOpen, err))
	}

	if dec != nil {
		rc = &stackedReadCloser{
			Reader:  transform.NewReader(rc, dec.NewDecoder()),
			closers: []io.Closer{rc},
		}
	}
	return NewLineReader(rc), nil
}

// Records opens location and returns a RecordReader over it.
func (o Opener) Records(ctx context.Context, location string, delim rune, filter *Filter) (*RecordReader, error) {
	lr, err := o.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	return NewRecordReader(location, lr, delim, filter), nil
}

// decoder resolves the configured encoding; nil means the input is already UTF-8.
func (o Opener) decoder() (encoding.Encoding, error) {
	label := strings.TrimSpace(o.Encoding)
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fault.NewArgument("encoding", "", fmt.Errorf("%w: unknown encoding %q", fault.ErrInvalidArgument, label))
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

func (o Opener) object(location string) (string, string, error) {
	if o.Storage == nil {
		return "", "", fault.NewArgument("open", location, fmt.Errorf("%w: object storage is not configured", fault.ErrInvalidArgument))
	}
	bucket, key, err := storage.ParseURI(location)
	if err == nil && key == "" {
		err = errors.New("object key cannot be empty")
	}
	if err != nil {
		return "", "", fault.NewArgument("open", location, fmt.Errorf("%w: %w", fault.ErrInvalidArgument, err))
	}
	return bucket, key, nil
}

func (o Opener) openRaw(ctx context.Context, location string) (io.ReadCloser, error) {
	if storage.IsURI(location) {
		bucket, key, err := o.object(location)
		if err != nil {
			return nil, err
		}
		rc, err := o.Storage.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, fault.NewResource("open", location, fmt.Errorf("%w: %w", fault.ErrOpen, err))
		}
		return rc, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fault.NewResource("open", location, fmt.Errorf("%w: %w", fault.ErrOpen, unwrapPath(err)))
	}
	return f, nil
}

func decompress(location string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case ".zst":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		zrc := zr.IOReadCloser()
		return &stackedReadCloser{Reader: zrc, closers: []io.Closer{zrc, rc}}, nil
	default:
		return rc, nil
	}
}

// BaseName returns the last path element of a location, without the
// compression suffix.
func BaseName(location string) string {
	var base string
	if storage.IsURI(location) {
		base = path.Base(strings.TrimSuffix(location, "/"))
	} else {
		base = filepath.Base(location)
	}
	for _, ext := range []string{".gz", ".zst"} {
		if trimmed, ok := strings.CutSuffix(base, ext); ok && trimmed != "" {
			return trimmed
		}
	}
	return base
}

// stackedReadCloser reads from Reader and closes every closer in order.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func unwrapPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
