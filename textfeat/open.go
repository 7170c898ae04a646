package textfeat

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// readCloser closes the decompressor and then the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openFile opens a file and decompresses it according to its extension:
// .gz, .zst, .s2 or .lz4. Other files are read as they are.
func openFile(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		r, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "open gzip stream %s", name)
		}
		return &readCloser{r, []io.Closer{r, file}}, nil
	case ".zst":
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "open zstd stream %s", name)
		}
		r := dec.IOReadCloser()
		return &readCloser{r, []io.Closer{r, file}}, nil
	case ".s2":
		return &readCloser{s2.NewReader(file), []io.Closer{file}}, nil
	case ".lz4":
		return &readCloser{lz4.NewReader(file), []io.Closer{file}}, nil
	default:
		return file, nil
	}
}
