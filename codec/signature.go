package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("invalid function signature")

	whitespaceRe = regexp.MustCompile(`\s+`)
	commaRe      = regexp.MustCompile(`,\s*`)
)

// NormalizeSignature collapses whitespace and puts exactly one space after every comma. It is
// the comparison form used when matching a signature against a known shape.
func NormalizeSignature(s string) string {
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return commaRe.ReplaceAllString(s, ", ")
}

// canonicalizeSignature reduces a human readable signature to the compact selector form
// expected by the ABI parser:
//
//	function transfer(address to, uint256 amount) external -> transfer(address,uint256)
//
// Parameter names, data location keywords, the tuple keyword and everything after the
// parameter list are dropped.
func canonicalizeSignature(text string) (string, error) {
	s := strings.TrimSpace(text)
	if fields := strings.Fields(s); len(fields) > 0 && fields[0] == "function" {
		s = strings.TrimSpace(s[len("function"):])
	}
	if !strings.Contains(s, "(") {
		return "", fmt.Errorf("%w: %q has no parameter list", ErrInvalidSignature, text)
	}

	var (
		out   strings.Builder
		seg   strings.Builder
		prev  byte
		depth int
	)

	flush := func() {
		fields := strings.Fields(seg.String())
		seg.Reset()
		if len(fields) == 0 {
			return
		}
		switch prev {
		case 0, '(', ',':
			out.WriteString(fields[0])
		case ')':
			// only an array suffix may follow a tuple
			if strings.HasPrefix(fields[0], "[") {
				out.WriteString(fields[0])
			}
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(':
			if prev == 0 {
				flush()
			} else {
				// "tuple(" in human readable ABIs
				seg.Reset()
			}
			out.WriteByte(c)
			prev = c
			depth++
		case ',':
			flush()
			out.WriteByte(c)
			prev = c
		case ')':
			flush()
			out.WriteByte(c)
			prev = c
			depth--
			if depth == 0 {
				return out.String(), nil
			}
			if depth < 0 {
				return "", fmt.Errorf("%w: %q has unbalanced parentheses", ErrInvalidSignature, text)
			}
		default:
			seg.WriteByte(c)
		}
	}

	return "", fmt.Errorf("%w: %q has unbalanced parentheses", ErrInvalidSignature, text)
}
