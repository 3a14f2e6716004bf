// Package parser implements a recursive-descent parser for the regex
// grammar in this module's specification: mandatory '/…/' delimiters, a
// trailing 'i' modifier, alternation, concatenation, the '?'/'*'/'+'/'{m,n}'
// quantifiers, '.' and character classes, and '^'/'$' as ordinary
// zero-width atoms (so that e.g. "^ab|cd$" parses as "(^ab)|(cd$)", matching
// how every mainstream regex engine treats anchors inside an alternation —
// see DESIGN.md for why this module departs from a literal reading of the
// outer-level-only grammar sketch).
package parser

import (
	"fmt"
	"strconv"

	"github.com/go-fhe/hregex/ast"
	"github.com/go-fhe/hregex/hgerrors"
)

// metachars that must be escaped to appear literally inside an atom.
const metachars = `.^$\|()[]{}*+?`

// Parser parses one pattern string into an AST.
type Parser struct {
	src string // the full "/…/i" source, for error reporting
	in  string // the bytes between the delimiters
	pos int
}

// New returns a parser over the raw pattern source, including its
// delimiters and optional trailing modifier.
func New(src string) *Parser {
	return &Parser{src: src}
}

// Parse parses src and returns the AST root (not yet normalized; see
// ast.Normalize), whether the 'i' modifier was present, and an error wrapping
// hgerrors.PatternSyntax on any malformed input.
func Parse(src string) (ast.Node, bool, error) {
	return New(src).Parse()
}

func (p *Parser) errf(format string, args ...any) error {
	return hgerrors.NewPattern(hgerrors.PatternSyntax, p.src, fmt.Errorf(format, args...))
}

// Parse implements the top-level 'regex' production.
func (p *Parser) Parse() (ast.Node, bool, error) {
	if len(p.src) < 2 || p.src[0] != '/' {
		return nil, false, p.errf("pattern must start with '/'")
	}
	end := lastSlash(p.src)
	if end <= 0 {
		return nil, false, p.errf("pattern must end with '/' followed by an optional modifier")
	}
	p.in = p.src[1:end]
	p.pos = 0

	ignoreCase := false
	for _, m := range p.src[end+1:] {
		if m != 'i' {
			return nil, false, p.errf("unknown modifier %q", m)
		}
		ignoreCase = true
	}

	root, err := p.parseAlt()
	if err != nil {
		return nil, false, err
	}
	if p.pos < len(p.in) {
		return nil, false, p.errf("unexpected character %q at offset %d", p.peek(), p.pos)
	}
	return root, ignoreCase, nil
}

// lastSlash finds the closing '/' that ends the pattern body, i.e. the last
// unescaped '/' in s. Only a trailing 'i' may follow it.
func lastSlash(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != '/' {
			continue
		}
		// Count preceding backslashes; an odd count means this '/' is escaped.
		bs := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			bs++
		}
		if bs%2 == 0 {
			return i
		}
	}
	return -1
}

func (p *Parser) eof() bool      { return p.pos >= len(p.in) }
func (p *Parser) peek() byte     { return p.in[p.pos] }
func (p *Parser) advance() byte  { b := p.in[p.pos]; p.pos++; return b }
func (p *Parser) at(b byte) bool { return !p.eof() && p.peek() == b }

// parseAlt implements 'alt := concat ('|' concat)*'.
func (p *Parser) parseAlt() (ast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if !p.at('|') {
		return left, nil
	}
	p.advance()
	right, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	return ast.Or(left, right), nil
}

// parseConcat implements 'concat := factor*'.
func (p *Parser) parseConcat() (ast.Node, error) {
	var nodes []ast.Node
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		n, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return &ast.Concat{}, nil
	}
	return ast.Seq(nodes...), nil
}

// parseFactor implements 'factor := atom quant?'.
func (p *Parser) parseFactor() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return atom, nil
	}
	switch p.peek() {
	case '?':
		p.advance()
		return ast.Quant(atom, '?', 0, 0), nil
	case '*':
		p.advance()
		return ast.Quant(atom, '*', 0, 0), nil
	case '+':
		p.advance()
		return ast.Quant(atom, '+', 0, 0), nil
	case '{':
		return p.parseBraceQuant(atom)
	default:
		return atom, nil
	}
}

func (p *Parser) parseBraceQuant(atom ast.Node) (ast.Node, error) {
	start := p.pos
	p.advance() // '{'

	min, hasMin, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errf("unclosed quantifier starting at offset %d", start)
	}
	if p.at('}') {
		p.advance()
		if !hasMin {
			return nil, p.errf("empty quantifier {} at offset %d", start)
		}
		return ast.Quant(atom, '{', min, min), nil
	}
	if !p.at(',') {
		return nil, p.errf("malformed quantifier at offset %d", start)
	}
	p.advance() // ','

	max, hasMax, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if !p.at('}') {
		return nil, p.errf("unclosed quantifier starting at offset %d", start)
	}
	p.advance()

	if !hasMin {
		min = 0
	}
	if !hasMax {
		max = ast.Unbounded
	}
	if hasMin && hasMax && min > max {
		return nil, p.errf("quantifier {%d,%d} has min > max", min, max)
	}
	return ast.Quant(atom, '{', min, max), nil
}

func (p *Parser) parseInt() (value int, ok bool, err error) {
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start {
		return 0, false, nil
	}
	v, err := strconv.Atoi(p.in[start:p.pos])
	if err != nil {
		return 0, false, p.errf("invalid integer %q: %v", p.in[start:p.pos], err)
	}
	return v, true, nil
}

// parseAtom implements the 'atom' production.
func (p *Parser) parseAtom() (ast.Node, error) {
	if p.eof() {
		return nil, p.errf("unexpected end of pattern")
	}
	switch c := p.peek(); c {
	case '.':
		p.advance()
		return ast.Any(), nil
	case '^':
		p.advance()
		return ast.Start(), nil
	case '$':
		p.advance()
		return ast.End(), nil
	case '\\':
		p.advance()
		if p.eof() {
			return nil, p.errf("trailing backslash")
		}
		lit := p.advance()
		if !isASCIIPrintable(lit) {
			return nil, p.errf("non-ASCII byte 0x%02x in pattern literal", lit)
		}
		return ast.Lit(lit), nil
	case '(':
		p.advance()
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.at(')') {
			return nil, p.errf("unclosed group")
		}
		p.advance()
		return inner, nil
	case '[':
		return p.parseClass()
	case ')', '|', '*', '+', '?', '{', '}', ']':
		return nil, p.errf("unexpected metacharacter %q at offset %d", c, p.pos)
	default:
		p.advance()
		if !isASCIIPrintable(c) {
			return nil, p.errf("non-ASCII byte 0x%02x in pattern literal", c)
		}
		return ast.Lit(c), nil
	}
}

// isASCIIPrintable reports whether b is a 7-bit-ASCII printable byte, the
// CHAR production's alphabet: space (0x20) through '~' (0x7e).
func isASCIIPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}

// parseClass implements "'[' '^'? class_item+ ']'".
func (p *Parser) parseClass() (ast.Node, error) {
	start := p.pos
	p.advance() // '['

	negate := false
	if p.at('^') {
		negate = true
		p.advance()
	}

	var set ast.ByteSet
	n := 0
	for {
		if p.eof() {
			return nil, p.errf("unclosed character class starting at offset %d", start)
		}
		if p.at(']') {
			break
		}
		lo, err := p.parseClassChar()
		if err != nil {
			return nil, err
		}
		if p.at('-') && !p.isClassEnd(p.pos + 1) {
			p.advance() // '-'
			hi, err := p.parseClassChar()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.errf("invalid class range %q-%q", lo, hi)
			}
			set.AddRange(lo, hi)
		} else {
			set.Add(lo)
		}
		n++
	}
	if n == 0 {
		return nil, p.errf("empty character class at offset %d", start)
	}
	p.advance() // ']'

	if negate {
		return ast.Negate(ast.ClassSet(set)), nil
	}
	return ast.ClassSet(set), nil
}

// isClassEnd reports whether pos is at or past the class's closing ']',
// used to decide whether a '-' is a range operator or a literal trailing
// hyphen (e.g. "[a-]").
func (p *Parser) isClassEnd(pos int) bool {
	return pos >= len(p.in) || p.in[pos] == ']'
}

func (p *Parser) parseClassChar() (byte, error) {
	if p.eof() {
		return 0, p.errf("unclosed character class")
	}
	c := p.advance()
	if c == '\\' {
		if p.eof() {
			return 0, p.errf("trailing backslash in character class")
		}
		c = p.advance()
		if !isASCIIPrintable(c) {
			return 0, p.errf("non-ASCII byte 0x%02x in character class", c)
		}
		return c, nil
	}
	if !isASCIIPrintable(c) {
		return 0, p.errf("non-ASCII byte 0x%02x in character class", c)
	}
	return c, nil
}
