package artifact

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// ParseSearchData reads a Doxygen search data script of the form
//
//	var searchData=
//	[
//	  ['reset',['reset',['../classNode.html#a7c5',1,'Node::reset()'],...]],
//	  ...
//	];
//
// and returns one entry per row. The display name becomes the entry name,
// scope labels are HTML-unescaped and a leading "../" is dropped from URLs.
func ParseSearchData(data []byte) ([]index.Entry, error) {
	start := bytes.IndexByte(data, '[')
	if start < 0 {
		return nil, fmt.Errorf("%w: no searchData array", apperrors.ErrInvalidArtifact)
	}
	p := &jsParser{src: data, pos: start}
	v, err := p.value()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArtifact, err)
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: searchData is not an array", apperrors.ErrInvalidArtifact)
	}

	entries := make([]index.Entry, 0, len(rows))
	for i, row := range rows {
		e, err := searchDataRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", apperrors.ErrInvalidArtifact, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// searchDataRow converts ['id',['Display',[url,flag,scope]...]].
func searchDataRow(row any) (index.Entry, error) {
	outer, ok := row.([]any)
	if !ok || len(outer) != 2 {
		return index.Entry{}, fmt.Errorf("expected [id, item]")
	}
	item, ok := outer[1].([]any)
	if !ok || len(item) < 2 {
		return index.Entry{}, fmt.Errorf("expected [name, location...]")
	}
	name, ok := item[0].(string)
	if !ok || name == "" {
		return index.Entry{}, fmt.Errorf("missing display name")
	}
	locs := make([]index.Location, 0, len(item)-1)
	for _, raw := range item[1:] {
		loc, ok := raw.([]any)
		if !ok || len(loc) < 1 {
			return index.Entry{}, fmt.Errorf("%s: malformed location", name)
		}
		url, ok := loc[0].(string)
		if !ok || url == "" {
			return index.Entry{}, fmt.Errorf("%s: location without url", name)
		}
		var scope string
		if len(loc) >= 3 {
			scope, _ = loc[2].(string)
		}
		locs = append(locs, index.Location{
			URL:   strings.TrimPrefix(url, "../"),
			Scope: cleanScope(scope),
		})
	}
	return index.NewEntry(name, locs), nil
}

func cleanScope(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// jsParser understands the subset of JavaScript literals Doxygen emits:
// arrays, single- or double-quoted strings and integers.
type jsParser struct {
	src []byte
	pos int
}

func (p *jsParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		return p.array()
	case c == '\'' || c == '"':
		return p.str(c)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
	}
}

func (p *jsParser) array() ([]any, error) {
	p.pos++ // [
	out := make([]any, 0, 4)
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
		}
	}
}

func (p *jsParser) str(quote byte) (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *jsParser) number() (int64, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	return strconv.ParseInt(string(p.src[start:p.pos]), 10, 64)
}
