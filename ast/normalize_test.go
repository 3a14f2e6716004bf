package ast

import (
	"testing"

	"github.com/go-fhe/hregex/hgerrors"
)

func TestNormalizeDesugarsQuantifiers(t *testing.T) {
	tests := []struct {
		name string
		in   Node
		want Node
	}{
		{"plus", Quant(Lit('a'), '+', 0, 0), &Repeat{Child: &Literal{B: 'a'}, Min: 1, Max: Unbounded}},
		{"star", Quant(Lit('a'), '*', 0, 0), &Repeat{Child: &Literal{B: 'a'}, Min: 0, Max: Unbounded}},
		{"question", Quant(Lit('a'), '?', 0, 0), &Optional{Child: &Literal{B: 'a'}}},
		{"bounded", Quant(Lit('a'), '{', 2, 5), &Repeat{Child: &Literal{B: 'a'}, Min: 2, Max: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in, false)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.Kind() != tt.want.Kind() {
				t.Fatalf("Normalize() kind = %v; want %v", got.Kind(), tt.want.Kind())
			}
		})
	}
}

func TestNormalizeCaseFoldsLiteral(t *testing.T) {
	got, err := Normalize(Lit('a'), true)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	oo, ok := got.(*OneOf)
	if !ok {
		t.Fatalf("Normalize(Lit('a'), true) = %T; want *OneOf", got)
	}
	if !oo.Set.Contains('a') || !oo.Set.Contains('A') {
		t.Errorf("case-folded set = %v; want {a, A}", oo.Set.Bytes())
	}
}

func TestNormalizeLeavesNonLetterLiteralAlone(t *testing.T) {
	got, err := Normalize(Lit('3'), true)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if _, ok := got.(*Literal); !ok {
		t.Errorf("Normalize(Lit('3'), true) = %T; want *Literal (digits are not case-folded)", got)
	}
}

func TestNormalizeClosesOneOfUnderCase(t *testing.T) {
	got, err := Normalize(Class('a', 'Z'), true)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	oo := got.(*OneOf)
	for _, b := range []byte{'a', 'A', 'z', 'Z'} {
		if !oo.Set.Contains(b) {
			t.Errorf("case-closed class missing %q; got %v", b, oo.Set.Bytes())
		}
	}
}

func TestNormalizeClosesRangeUnderCase(t *testing.T) {
	got, err := Normalize(Span('a', 'c'), true)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	oo, ok := got.(*OneOf)
	if !ok {
		t.Fatalf("Normalize(Span('a','c'), true) = %T; want *OneOf", got)
	}
	for _, b := range []byte{'a', 'b', 'c', 'A', 'B', 'C'} {
		if !oo.Set.Contains(b) {
			t.Errorf("case-closed range missing %q; got %v", b, oo.Set.Bytes())
		}
	}
}

func TestNormalizeRejectsNotOverVariableLength(t *testing.T) {
	bad := Negate(Rep(Lit('a'), 0, Unbounded))
	_, err := Normalize(bad, false)
	if err == nil {
		t.Fatalf("Normalize() error = nil; want UnsupportedConstruct")
	}
	var herr *hgerrors.Error
	if !errorsAs(err, &herr) {
		t.Fatalf("Normalize() error = %v (%T); want *hgerrors.Error", err, err)
	}
	if herr.Kind != hgerrors.UnsupportedConstruct {
		t.Errorf("Normalize() error kind = %v; want UnsupportedConstruct", herr.Kind)
	}
}

func TestNormalizeAcceptsNotOverSingleByteVariants(t *testing.T) {
	for _, n := range []Node{Lit('a'), Any(), Class('a', 'b'), Span('a', 'z')} {
		if _, err := Normalize(Negate(n), false); err != nil {
			t.Errorf("Normalize(Negate(%T)) error = %v; want nil", n, err)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := Or(Seq(Start(), Rep(Class('a', 'b'), 1, 3)), Seq(Negate(Any()), End()))
	once, err := Normalize(in, true)
	if err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}
	twice, err := Normalize(once, true)
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}
	if !sameShape(once, twice) {
		t.Errorf("Normalize() is not idempotent: %+v != %+v", once, twice)
	}
}

func sameShape(a, b Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Literal:
		return av.B == b.(*Literal).B
	case *AnyByte, *AnchorStart, *AnchorEnd:
		return true
	case *OneOf:
		return string(av.Set.Bytes()) == string(b.(*OneOf).Set.Bytes())
	case *Range:
		bv := b.(*Range)
		return av.Lo == bv.Lo && av.Hi == bv.Hi
	case *Not:
		return sameShape(av.Child, b.(*Not).Child)
	case *Concat:
		bv := b.(*Concat)
		if len(av.Nodes) != len(bv.Nodes) {
			return false
		}
		for i := range av.Nodes {
			if !sameShape(av.Nodes[i], bv.Nodes[i]) {
				return false
			}
		}
		return true
	case *Alt:
		bv := b.(*Alt)
		return sameShape(av.L, bv.L) && sameShape(av.R, bv.R)
	case *Optional:
		return sameShape(av.Child, b.(*Optional).Child)
	case *Repeat:
		bv := b.(*Repeat)
		return av.Min == bv.Min && av.Max == bv.Max && sameShape(av.Child, bv.Child)
	default:
		return false
	}
}

// errorsAs avoids importing "errors" solely for this one call site in more
// than one test.
func errorsAs(err error, target **hgerrors.Error) bool {
	if e, ok := err.(*hgerrors.Error); ok {
		*target = e
		return true
	}
	return false
}
