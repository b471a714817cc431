package linesource

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/utils"
)

// FallbackCharset is used for files that are not valid UTF-8 when no charset is given.
const FallbackCharset = "ISO-8859-1"

type FileOptions struct {
	// Charset of the file, as an IANA name. Empty means UTF-8, falling back to
	// FallbackCharset if the file is not valid UTF-8.
	Charset string
	// Progress shows a progress bar while reading
	Progress bool
}

type fileSource struct {
	path string
	opts FileOptions
}

// FromFile reads a spooled rlog report.
func FromFile(path string, opts *FileOptions) Source {
	if opts == nil {
		opts = &FileOptions{}
	}

	return &fileSource{path: path, opts: *opts}
}

func (s *fileSource) Name() string {
	return s.path
}

func (s *fileSource) Open(context.Context) (io.ReadCloser, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %v", s.path)
	}

	result, err := s.wrap(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return result, nil
}

func (s *fileSource) wrap(file *os.File) (io.ReadCloser, error) {
	charset := s.opts.Charset
	if charset == "" {
		valid, err := utils.IsUTF8(file, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %v", s.path)
		}
		if !valid {
			charset = FallbackCharset
		}

		_, err = file.Seek(0, io.SeekStart)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %v", s.path)
		}
	}

	var r io.Reader = file
	finish := func() error { return nil }

	if s.opts.Progress {
		stat, err := file.Stat()
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %v", s.path)
		}

		bar := utils.NewBytesProgressBar(stat.Size(), "Reading "+stat.Name())
		r = io.TeeReader(file, bar)
		finish = bar.Finish
	}

	r, err := decode(r, charset)
	if err != nil {
		return nil, err
	}

	return &readCloser{
		Reader: r,
		close: func() error {
			_ = finish()
			return file.Close()
		},
	}, nil
}
