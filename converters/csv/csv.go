package csv

import (
	"fmt"
	"io"
	"strings"

	"github.com/darianmavgo/csvtosql/converters"
	"github.com/darianmavgo/csvtosql/converters/common"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func init() {
	converters.Register("csv", &csvDriver{})
}

type csvDriver struct{}

func (d *csvDriver) Open(source io.Reader, opts *common.SourceOptions) (common.RowSource, error) {
	var enc string
	if opts != nil {
		enc = opts.Encoding
	}
	r, err := NewDecodingReader(source, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.DisplayName(), err)
	}
	return NewTokenizer(r, opts.DisplayName())
}

// NewDecodingReader returns a reader that yields UTF-8 text decoded from r.
// An empty name means UTF-8. A leading byte order mark is honoured and
// dropped whatever the configured encoding.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding = unicode.UTF8
	if name = strings.TrimSpace(name); name != "" {
		e, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
		}
		enc = e
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
