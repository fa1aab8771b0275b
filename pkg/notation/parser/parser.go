package parser

import (
	"unicode/utf8"

	"mercator-hq/tensorix/pkg/notation/ast"
	notationErrors "mercator-hq/tensorix/pkg/notation/errors"
)

// DefaultMaxLength is the default limit on notation length in bytes.
const DefaultMaxLength = 256

// Parser parses index notation strings. A Parser holds only configuration
// and is safe for concurrent use once configured.
type Parser struct {
	maxLength int
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{maxLength: DefaultMaxLength}
}

// WithMaxLength sets the maximum notation length in bytes. Zero or a
// negative value disables the limit (config notation.max_length: -1).
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// MaxLength returns the configured length limit.
func (p *Parser) MaxLength() int { return p.maxLength }

// Parse checks the syntax of notation and returns its parts. It reports
// every problem as a format error; the tensor rank is checked separately
// by ValidateRank.
func (p *Parser) Parse(notation string) (*ast.Indices, error) {
	if p.maxLength > 0 && len(notation) > p.maxLength {
		return nil, notationErrors.NewFormatError(notation, -1,
			"notation is %d bytes long, the limit is %d", len(notation), p.maxLength)
	}

	s := newScanner(notation)
	ind := &ast.Indices{
		Notation:      notation,
		Contravariant: ast.Part{Variance: ast.Contravariant},
		Covariant:     ast.Part{Variance: ast.Covariant},
	}

	first, second := &ind.Contravariant, &ind.Covariant
	if c, ok := s.peek(); ok && c == '_' {
		first, second = second, first
		s.advance()
	} else if ok && c == '^' {
		s.advance()
	}

	if err := s.part(first); err != nil {
		return nil, err
	}
	if c, ok := s.peek(); ok {
		if c != second.Variance.Marker() {
			return nil, s.errorf("unexpected %q: the %s part was already given", c, first.Variance)
		}
		s.advance()
		if err := s.part(second); err != nil {
			return nil, err
		}
		if c, ok := s.peek(); ok {
			return nil, s.errorf("unexpected %q after the %s part", c, second.Variance)
		}
	}

	for _, part := range []*ast.Part{first, second} {
		if err := checkRepeats(notation, part); err != nil {
			return nil, err
		}
	}
	return ind, nil
}

// ValidateRank checks that the parts of ind hold exactly p contravariant
// and q covariant indices.
func ValidateRank(ind *ast.Indices, p, q int) error {
	if n := ind.Contravariant.Len(); n != p {
		return notationErrors.NewRankMismatchError(ind.Notation, "contravariant", n, p)
	}
	if n := ind.Covariant.Len(); n != q {
		return notationErrors.NewRankMismatchError(ind.Notation, "covariant", n, q)
	}
	return nil
}

func checkRepeats(notation string, part *ast.Part) error {
	seen := make(map[byte]bool, len(part.Tokens))
	for _, tok := range part.Tokens {
		if tok.IsWildcard() {
			continue
		}
		if seen[tok.Symbol] {
			err := notationErrors.NewFormatError(notation, tok.Offset,
				"repeated index %c among the %s indices", tok.Symbol, part.Variance)
			err.Suggestion = notationErrors.SuggestWildcard(tok.Symbol)
			return err
		}
		seen[tok.Symbol] = true
	}
	return nil
}

// scanner walks the notation with curly braces skipped, keeping byte
// offsets into the original string.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	s := &scanner{src: src}
	s.skipBraces()
	return s
}

func (s *scanner) skipBraces() {
	for s.pos < len(s.src) && (s.src[s.pos] == '{' || s.src[s.pos] == '}') {
		s.pos++
	}
}

func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *scanner) advance() {
	s.pos++
	s.skipBraces()
}

func (s *scanner) errorf(format string, args ...any) *notationErrors.Error {
	return notationErrors.NewFormatError(s.src, s.pos, format, args...)
}

// part reads symbols and groups into dst until a variance marker or the
// end of input.
func (s *scanner) part(dst *ast.Part) error {
	open := -1 // index into dst.Groups of the group being read
	for {
		c, ok := s.peek()
		if !ok || c == '^' || c == '_' {
			break
		}
		switch {
		case isSymbol(c):
			dst.Tokens = append(dst.Tokens, ast.Token{Symbol: c, Offset: s.pos})

		case c == '(' || c == '[':
			if open >= 0 {
				err := s.errorf("nested group in the %s part", dst.Variance)
				err.Suggestion = notationErrors.SuggestGroup()
				return err
			}
			kind := ast.Symmetric
			if c == '[' {
				kind = ast.Antisymmetric
			}
			dst.Groups = append(dst.Groups, ast.Group{Kind: kind, Start: len(dst.Tokens), Offset: s.pos})
			open = len(dst.Groups) - 1

		case c == ')' || c == ']':
			if open < 0 {
				return s.errorf("%q closes no group", c)
			}
			g := &dst.Groups[open]
			if _, want := g.Kind.Delimiters(); c != want {
				return s.errorf("%q closes a group opened with %q", c, s.src[g.Offset])
			}
			g.End = len(dst.Tokens)
			if g.Len() < 2 {
				err := s.errorf("group holds %d index, at least 2 are needed", g.Len())
				err.Suggestion = notationErrors.SuggestGroup()
				return err
			}
			open = -1

		default:
			r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
			return s.errorf("illegal character %q: indices are ASCII letters or '.'", r)
		}
		s.advance()
	}
	if open >= 0 {
		g := dst.Groups[open]
		err := notationErrors.NewFormatError(s.src, g.Offset, "group opened with %q is never closed", s.src[g.Offset])
		err.Suggestion = notationErrors.SuggestGroup()
		return err
	}
	return nil
}

func isSymbol(c byte) bool {
	return c == ast.Wildcard || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
