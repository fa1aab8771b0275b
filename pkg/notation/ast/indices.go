package ast

import "strings"

// Wildcard is the index symbol that matches nothing and may repeat.
const Wildcard = '.'

// Variance says whether an index is contravariant (upper) or covariant
// (lower).
type Variance int

const (
	Contravariant Variance = iota
	Covariant
)

// Marker returns the character introducing a part of this variance.
func (v Variance) Marker() byte {
	if v == Covariant {
		return '_'
	}
	return '^'
}

func (v Variance) String() string {
	if v == Covariant {
		return "covariant"
	}
	return "contravariant"
}

// GroupKind is the operation a group requests.
type GroupKind int

const (
	Symmetric     GroupKind = iota // (...)
	Antisymmetric                  // [...]
)

func (k GroupKind) String() string {
	if k == Antisymmetric {
		return "antisymmetric"
	}
	return "symmetric"
}

// Delimiters returns the opening and closing characters of the group kind.
func (k GroupKind) Delimiters() (open, close byte) {
	if k == Antisymmetric {
		return '[', ']'
	}
	return '(', ')'
}

// Token is one index symbol.
type Token struct {
	Symbol byte // ASCII letter or Wildcard
	Offset int  // byte offset in the original notation
}

// IsWildcard reports whether the token is the wildcard.
func (t Token) IsWildcard() bool { return t.Symbol == Wildcard }

// Group covers Tokens[Start:End] of its part.
type Group struct {
	Kind   GroupKind
	Start  int
	End    int
	Offset int // byte offset of the opening delimiter
}

// Len returns the number of tokens in the group.
func (g Group) Len() int { return g.End - g.Start }

// Part holds the indices of one variance in notation order.
type Part struct {
	Variance Variance
	Tokens   []Token
	Groups   []Group
}

// Len returns the number of index symbols, punctuation excluded.
func (p Part) Len() int { return len(p.Tokens) }

// Letters returns the index symbols without group punctuation.
func (p Part) Letters() string {
	b := make([]byte, len(p.Tokens))
	for i, t := range p.Tokens {
		b[i] = t.Symbol
	}
	return string(b)
}

// String renders the part with its groups, without the variance marker.
func (p Part) String() string {
	var sb strings.Builder
	for i, t := range p.Tokens {
		for _, g := range p.Groups {
			if g.Start == i {
				open, _ := g.Kind.Delimiters()
				sb.WriteByte(open)
			}
		}
		sb.WriteByte(t.Symbol)
		for _, g := range p.Groups {
			if g.End == i+1 {
				_, close := g.Kind.Delimiters()
				sb.WriteByte(close)
			}
		}
	}
	return sb.String()
}

// Indices is a parsed notation.
type Indices struct {
	Notation      string
	Contravariant Part
	Covariant     Part
}

// Canonical renders the indices as "^con_cov", dropping empty parts.
func (ind *Indices) Canonical() string {
	var sb strings.Builder
	if ind.Contravariant.Len() > 0 {
		sb.WriteByte('^')
		sb.WriteString(ind.Contravariant.String())
	}
	if ind.Covariant.Len() > 0 {
		sb.WriteByte('_')
		sb.WriteString(ind.Covariant.String())
	}
	return sb.String()
}

// HasGroups reports whether any part requests a symmetrization.
func (ind *Indices) HasGroups() bool {
	return len(ind.Contravariant.Groups) > 0 || len(ind.Covariant.Groups) > 0
}
