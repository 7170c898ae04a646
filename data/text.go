package data

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// lookupEncoding resolves IANA names first so that iso-8859-1 is Latin-1
// rather than the windows-1252 the web index maps it to.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	if e, err := ianaindex.IANA.Encoding(name); err == nil && e != nil {
		return e, nil
	}
	e, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "text encoding %q", name)
	}
	return e, nil
}

func readText(name string, e encoding.Encoding) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	// The UTF-8 decoder replaces invalid bytes instead of failing.
	if e == unicode.UTF8 {
		if !utf8.Valid(b) {
			return "", errors.Errorf("decode %s: invalid UTF-8", name)
		}
		return string(b), nil
	}
	b, err = e.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s", name)
	}
	return string(b), nil
}
