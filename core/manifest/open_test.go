package manifest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filelist-diff/core/fault"
	"filelist-diff/core/storage/mocks"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sample = "# generated\nf\th1\t10\ta\nf\th2\t20\tb\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func collect(t *testing.T, rr *RecordReader) []Record {
	t.Helper()
	var out []Record
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestOpenerLocal(t *testing.T) {
	gz := func() []byte {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, _ = w.Write([]byte(sample))
		_ = w.Close()
		return buf.Bytes()
	}()
	zst := func() []byte {
		enc, _ := zstd.NewWriter(nil)
		defer enc.Close()
		return enc.EncodeAll([]byte(sample), nil)
	}()

	files := map[string][]byte{
		"list.txt":     []byte(sample),
		"list.txt.gz":  gz,
		"list.txt.zst": zst,
	}

	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, name, data)
			o := Opener{Encoding: DefaultEncoding}
			require.NoError(t, o.Check(context.Background(), p))

			rr, err := o.Records(context.Background(), p, '\t', nil)
			require.NoError(t, err)
			defer rr.Close()

			recs := collect(t, rr)
			require.Len(t, recs, 2)
			assert.Equal(t, Entry{Type: "f", Hash: "h1", Size: "10", Path: "a"}, recs[0].Entry)
			assert.Equal(t, 2, recs[0].Line)
			assert.Equal(t, "b", recs[1].Path)
			assert.Equal(t, 3, recs[1].Line)
			assert.Equal(t, p, rr.Location())
		})
	}
}

func TestOpenerEncoding(t *testing.T) {
	// "café" in windows-1252
	p := writeFile(t, "latin.txt", []byte("f\th\t1\tcaf\xe9\n"))

	rr, err := Opener{Encoding: "windows-1252"}.Records(context.Background(), p, '\t', nil)
	require.NoError(t, err)
	defer rr.Close()

	recs := collect(t, rr)
	require.Len(t, recs, 1)
	assert.Equal(t, "café", recs[0].Path)

	_, err = Opener{Encoding: "klingon"}.Open(context.Background(), p)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, fault.Argument, kind)
}

func TestOpenerMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	o := Opener{}

	err := o.Check(context.Background(), missing)
	assert.ErrorIs(t, err, fault.ErrInputMissing)
	kind, _ := fault.KindOf(err)
	assert.Equal(t, fault.Argument, kind)

	_, err = o.Open(context.Background(), missing)
	assert.ErrorIs(t, err, fault.ErrOpen)
	kind, _ = fault.KindOf(err)
	assert.Equal(t, fault.Resource, kind)
	assert.Contains(t, err.Error(), missing)

	err = o.Check(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, fault.ErrInputMissing, "directories are not manifests")
}

func TestOpenerObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", ctx, "lists", "2021/root.dat", mock.Anything).
			Return(minio.ObjectInfo{Key: "2021/root.dat"}, nil)
		client.On("GetObject", ctx, "lists", "2021/root.dat", mock.Anything).
			Return(io.NopCloser(strings.NewReader(sample)), nil)

		o := Opener{Storage: client}
		require.NoError(t, o.Check(ctx, "s3://lists/2021/root.dat"))

		rr, err := o.Records(ctx, "s3://lists/2021/root.dat", '\t', nil)
		require.NoError(t, err)
		defer rr.Close()
		assert.Len(t, collect(t, rr), 2)
		client.AssertExpectations(t)
	})

	t.Run("MissingObject", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", ctx, "lists", "gone.dat", mock.Anything).
			Return(minio.ObjectInfo{}, errors.New("The specified key does not exist."))

		err := Opener{Storage: client}.Check(ctx, "s3://lists/gone.dat")
		assert.ErrorIs(t, err, fault.ErrInputMissing)
	})

	t.Run("GetFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "lists", "root.dat", mock.Anything).
			Return(nil, errors.New("connection refused"))

		_, err := Opener{Storage: client}.Open(ctx, "s3://lists/root.dat")
		assert.ErrorIs(t, err, fault.ErrOpen)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		_, err := Opener{}.Open(ctx, "s3://lists/root.dat")
		assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		_, err := Opener{Storage: new(mocks.Client)}.Open(ctx, "s3://lists/")
		assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	})
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "root_filelist.dat", BaseName("/data/2021/root_filelist.dat"))
	assert.Equal(t, "root_filelist.dat", BaseName("root_filelist.dat.zst"))
	assert.Equal(t, "root.dat", BaseName("s3://lists/2021/root.dat.gz"))
	assert.Equal(t, ".gz", BaseName("/tmp/.gz"))
}

func TestRecordReader(t *testing.T) {
	t.Run("SkipsCommentsAndExcluded", func(t *testing.T) {
		filter, err := NewFilter([]string{"cache/", "**/*.tmp"})
		require.NoError(t, err)

		input := "#f\th\t1\tcomment\nf\th\t1\tkeep\nf\th\t1\tcache/x/y\nf\th\t1\tsrc/a.tmp\n"
		lr := NewLineReader(io.NopCloser(strings.NewReader(input)))
		recs := collect(t, NewRecordReader("old.txt", lr, '\t', filter))

		require.Len(t, recs, 1)
		assert.Equal(t, "keep", recs[0].Path)
		assert.Equal(t, 2, recs[0].Line)
	})

	t.Run("MalformedLine", func(t *testing.T) {
		input := "f\th\t1\ta\n# note\nf\th\t1\n"
		lr := NewLineReader(io.NopCloser(strings.NewReader(input)))
		rr := NewRecordReader("old.txt", lr, '\t', nil)

		_, err := rr.Next()
		require.NoError(t, err)
		_, err = rr.Next()
		require.Error(t, err)

		var f *fault.Error
		require.ErrorAs(t, err, &f)
		assert.Equal(t, fault.Parse, f.Kind)
		assert.Equal(t, "old.txt", f.Location)
		assert.Equal(t, 3, f.Line)
		assert.ErrorIs(t, err, fault.ErrTooFewFields)
		assert.Equal(t, `read: too few fields in line 3 of "old.txt"`, err.Error())
	})
}

func TestFilter(t *testing.T) {
	var nilFilter *Filter
	assert.False(t, nilFilter.Excluded("anything"))

	f, err := NewFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = NewFilter([]string{"private/var/", "*.log", "/usr/**/cache"})
	require.NoError(t, err)
	assert.True(t, f.Excluded("private/var/db/x"))
	assert.True(t, f.Excluded("/private/var"))
	assert.True(t, f.Excluded("system.log"))
	assert.False(t, f.Excluded("logs/system.log"))
	assert.True(t, f.Excluded("usr/local/lib/cache"))
	assert.False(t, f.Excluded("private/variant"))

	_, err = NewFilter([]string{"[unclosed"})
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}
