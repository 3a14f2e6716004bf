package parser

import (
	"testing"

	"github.com/go-fhe/hregex/ast"
)

func TestParseValidPatterns(t *testing.T) {
	tests := []struct {
		pattern    string
		ignoreCase bool
	}{
		{`/a/`, false},
		{`/a/i`, true},
		{`/^ab|cd$/`, false},
		{`/w(i|a)ll/`, false},
		{`/[^ab]/`, false},
		{`/a{2,3}/`, false},
		{`/abc/i`, true},
		{`/a*b+c?/`, false},
		{`//`, false},
		{`/[a-z]/`, false},
		{`/\./`, false},
		{`/\//`, false},
	}
	for _, tt := range tests {
		_, ignoreCase, err := Parse(tt.pattern)
		if err != nil {
			t.Errorf("Parse(%q) error = %v; want nil", tt.pattern, err)
			continue
		}
		if ignoreCase != tt.ignoreCase {
			t.Errorf("Parse(%q) ignoreCase = %v; want %v", tt.pattern, ignoreCase, tt.ignoreCase)
		}
	}
}

func TestParseInvalidPatterns(t *testing.T) {
	tests := []struct {
		pattern string
		desc    string
	}{
		{"a", "missing delimiters"},
		{"/a", "missing closing delimiter"},
		{"/(a/", "unclosed group"},
		{"/a)/", "unmatched closing paren"},
		{"/[a/", "unclosed character class"},
		{"/[]/", "empty character class"},
		{"/[z-a]/", "invalid range"},
		{"/a{3,2}/", "min > max"},
		{"/a{/", "unclosed quantifier"},
		{"/{3}/", "quantifier without target"},
		{"/a/x", "unknown modifier"},
		{`/a\/`, "trailing backslash before close"},
		{"/a\xc3\xa9/", "non-ASCII literal byte"},
		{"/[a\xc3\xa9]/", "non-ASCII byte in character class"},
		{"/a\\\xc3\xa9/", "non-ASCII escaped byte"},
	}
	for _, tt := range tests {
		_, _, err := Parse(tt.pattern)
		if err == nil {
			t.Errorf("Parse(%q) error = nil; want error (%s)", tt.pattern, tt.desc)
		}
	}
}

func TestParseAnchorsAsAtoms(t *testing.T) {
	// "^ab|cd$" must parse as (^ab)|(cd$), not ^(ab|cd)$ — see the package
	// doc comment and DESIGN.md for why.
	root, _, err := Parse(`/^ab|cd$/`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	alt, ok := root.(*ast.Alt)
	if !ok {
		t.Fatalf("root = %T; want *ast.Alt", root)
	}
	left, ok := alt.L.(*ast.Concat)
	if !ok || len(left.Nodes) != 3 || left.Nodes[0].Kind() != ast.KindAnchorStart {
		t.Errorf("left branch = %#v; want Concat(AnchorStart, a, b)", alt.L)
	}
	right, ok := alt.R.(*ast.Concat)
	if !ok || len(right.Nodes) != 3 || right.Nodes[2].Kind() != ast.KindAnchorEnd {
		t.Errorf("right branch = %#v; want Concat(c, d, AnchorEnd)", alt.R)
	}
}

func TestParseCharClassRange(t *testing.T) {
	root, _, err := Parse(`/[a-c]/`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	oo, ok := root.(*ast.OneOf)
	if !ok {
		t.Fatalf("root = %T; want *ast.OneOf", root)
	}
	for _, b := range []byte{'a', 'b', 'c'} {
		if !oo.Set.Contains(b) {
			t.Errorf("class missing %q", b)
		}
	}
	if oo.Set.Contains('d') {
		t.Errorf("class unexpectedly contains 'd'")
	}
}

func TestParseNegatedClass(t *testing.T) {
	root, _, err := Parse(`/[^ab]/`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	not, ok := root.(*ast.Not)
	if !ok {
		t.Fatalf("root = %T; want *ast.Not", root)
	}
	if not.Child.Kind() != ast.KindOneOf {
		t.Errorf("Not child = %T; want *ast.OneOf", not.Child)
	}
}

func TestParseTrailingHyphenInClassIsLiteral(t *testing.T) {
	root, _, err := Parse(`/[a-]/`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	oo := root.(*ast.OneOf)
	if !oo.Set.Contains('a') || !oo.Set.Contains('-') {
		t.Errorf("class = %v; want {a, -}", oo.Set.Bytes())
	}
}

func TestParseEmptyPatternMatchesEmptyString(t *testing.T) {
	root, _, err := Parse(`//`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c, ok := root.(*ast.Concat)
	if !ok || len(c.Nodes) != 0 {
		t.Errorf("Parse(\"//\") = %#v; want empty Concat", root)
	}
}
