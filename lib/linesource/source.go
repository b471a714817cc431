package linesource

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/ianaindex"
)

// Source produces the text of one rlog report.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

type stringSource struct {
	name string
	text string
}

// FromString returns an in-memory source.
func FromString(name, text string) Source {
	return &stringSource{name: name, text: text}
}

func (s *stringSource) Name() string {
	return s.name
}

func (s *stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.text)), nil
}

// decode wraps r so it returns UTF-8. An empty charset leaves r untouched.
func decode(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return r, nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown charset %v", charset)
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported charset %v", charset)
	}

	return enc.NewDecoder().Reader(r), nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error {
	return r.close()
}
