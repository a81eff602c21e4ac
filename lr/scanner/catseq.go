package scanner

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/lalrgen"
)

// --- Category codes --------------------------------------------------------

// CatCode is a category code for runes. Runes of the same category form
// sequences, unless the category is a loner category.
type CatCode int16

// IllegalCatCode is the category of runes a categorizer does not know.
const IllegalCatCode CatCode = 0

// RuneCategorizer assigns category codes to runes.
type RuneCategorizer interface {
	Cat(r rune) (cat CatCode, isLoner bool)
}

// CatSeq is a sequence of runes of equal category.
type CatSeq struct {
	Cat    CatCode // catcode of all runes in this sequence
	Length int     // length of sequence in terms of runes
}

// ErrUnterminated is returned for a delimited block missing its closing delimiter.
var ErrUnterminated = errors.New("unterminated block")

// --- Category sequence reader ----------------------------------------------

// CatSeqReader reads runes from an input and groups them into sequences of
// equal category. It records the runes read since the last call to
// ResetOutput, and tracks the byte span of them.
type CatSeqReader struct {
	isEof      bool
	peeked     bool
	next       rune
	nextLen    int
	start, end uint64 // as bytes index
	reader     io.RuneReader
	writer     strings.Builder
}

// NewCatSeqReader creates a reader for an input.
func NewCatSeqReader(r io.RuneReader) *CatSeqReader {
	return &CatSeqReader{reader: r}
}

// Next reads the next sequence of runes with equal category. Illegal runes and
// runes of a loner category are returned as sequences of length 1.
// At the end of input, Next returns io.EOF.
func (rs *CatSeqReader) Next(rc RuneCategorizer) (csq CatSeq, err error) {
	r, err := rs.lookahead()
	if err == io.EOF {
		return csq, io.EOF
	} else if err != nil {
		return csq, fmt.Errorf("scanner cannot read sequence (%w)", err)
	}
	var isLoner bool
	csq.Cat, isLoner = rc.Cat(r)
	rs.match(r)
	csq.Length = 1
	if isLoner || csq.Cat == IllegalCatCode {
		return csq, nil
	}
	for {
		if r, err = rs.lookahead(); err == io.EOF {
			return csq, nil
		} else if err != nil {
			return csq, fmt.Errorf("scanner cannot read sequence (%w)", err)
		}
		if cc, _ := rc.Cat(r); cc != csq.Cat {
			return csq, nil
		}
		rs.match(r)
		csq.Length++
	}
}

// Block reads runes up to and including the next unescaped rune end, and
// returns the runes in between. A backslash escapes the rune following it;
// an escaped backslash is reduced to a single backslash, other escapes are
// kept verbatim.
func (rs *CatSeqReader) Block(end rune) (string, error) {
	var b strings.Builder
	escaped := false
	for {
		r, err := rs.lookahead()
		if err == io.EOF {
			return b.String(), fmt.Errorf("%w: missing %q", ErrUnterminated, end)
		} else if err != nil {
			return b.String(), fmt.Errorf("scanner cannot read block (%w)", err)
		}
		rs.match(r)
		if r == end && !escaped {
			return b.String(), nil
		}
		if r == '\\' {
			if escaped {
				b.WriteRune('\\')
			}
			escaped = !escaped
			continue
		}
		if escaped {
			b.WriteRune('\\')
			escaped = false
		}
		b.WriteRune(r)
	}
}

// OutputString returns the runes matched since the last reset.
func (rs *CatSeqReader) OutputString() string {
	return rs.writer.String()
}

// ResetOutput clears the output and starts a new span.
func (rs *CatSeqReader) ResetOutput() {
	rs.writer.Reset()
	rs.start = rs.end
}

// Span is the byte span of the runes matched since the last reset.
func (rs *CatSeqReader) Span() lalrgen.Span {
	return lalrgen.Span{rs.start, rs.end}
}

func (rs *CatSeqReader) lookahead() (rune, error) {
	if rs.isEof {
		return utf8.RuneError, io.EOF
	}
	if rs.peeked {
		return rs.next, nil
	}
	r, sz, err := rs.reader.ReadRune()
	if err == io.EOF {
		rs.isEof = true
		return utf8.RuneError, io.EOF
	} else if err != nil {
		return utf8.RuneError, err
	}
	rs.next, rs.nextLen, rs.peeked = r, sz, true
	return r, nil
}

func (rs *CatSeqReader) match(r rune) {
	rs.writer.WriteRune(r)
	rs.end += uint64(rs.nextLen)
	rs.peeked = false
}
