package ast

import (
	"fmt"

	"github.com/go-fhe/hregex/hgerrors"
)

// Normalize rewrites a parser-produced tree into the canonical node set:
// sugar quantifiers ('+', '*', '{m,n}') become Repeat, '?' becomes
// Optional, and — when ignoreCase is set — every Literal whose byte is a
// letter becomes a case-closed OneOf, with OneOf and Range closed under
// case the same way.
//
// Normalize is pure, total and idempotent: running it twice over its own
// output is a no-op. It is the only place Not's single-byte invariant is
// checked.
func Normalize(root Node, ignoreCase bool) (Node, error) {
	n, err := normalize(root, ignoreCase)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func normalize(n Node, ignoreCase bool) (Node, error) {
	switch v := n.(type) {
	case *quant:
		child, err := normalize(v.Child, ignoreCase)
		if err != nil {
			return nil, err
		}
		return desugarQuant(child, v), nil

	case *Literal:
		if ignoreCase {
			return caseClose(v.B, v.B), nil
		}
		return v, nil

	case *OneOf:
		if !ignoreCase {
			return v, nil
		}
		set := v.Set
		for _, b := range v.Set.Bytes() {
			addCaseTwin(&set, b)
		}
		return &OneOf{Set: set}, nil

	case *Range:
		if !ignoreCase {
			return v, nil
		}
		var set ByteSet
		set.AddRange(v.Lo, v.Hi)
		for b := int(v.Lo); b <= int(v.Hi); b++ {
			addCaseTwin(&set, byte(b))
		}
		return &OneOf{Set: set}, nil

	case *AnyByte, *AnchorStart, *AnchorEnd:
		return v, nil

	case *Not:
		child, err := normalize(v.Child, ignoreCase)
		if err != nil {
			return nil, err
		}
		if !consumesExactlyOneByte(child) {
			return nil, hgerrors.New(hgerrors.UnsupportedConstruct,
				fmt.Errorf("Not wraps a variable-length node (%T); only single-byte children are supported", child))
		}
		return &Not{Child: child}, nil

	case *Concat:
		nodes := make([]Node, len(v.Nodes))
		for i, c := range v.Nodes {
			nc, err := normalize(c, ignoreCase)
			if err != nil {
				return nil, err
			}
			nodes[i] = nc
		}
		return &Concat{Nodes: nodes}, nil

	case *Alt:
		l, err := normalize(v.L, ignoreCase)
		if err != nil {
			return nil, err
		}
		r, err := normalize(v.R, ignoreCase)
		if err != nil {
			return nil, err
		}
		return &Alt{L: l, R: r}, nil

	case *Optional:
		c, err := normalize(v.Child, ignoreCase)
		if err != nil {
			return nil, err
		}
		return &Optional{Child: c}, nil

	case *Repeat:
		c, err := normalize(v.Child, ignoreCase)
		if err != nil {
			return nil, err
		}
		return &Repeat{Child: c, Min: v.Min, Max: v.Max}, nil

	default:
		return nil, hgerrors.New(hgerrors.UnsupportedConstruct, fmt.Errorf("unknown node type %T", n))
	}
}

func desugarQuant(child Node, q *quant) Node {
	switch q.Op {
	case '?':
		return &Optional{Child: child}
	case '*':
		return &Repeat{Child: child, Min: 0, Max: Unbounded}
	case '+':
		return &Repeat{Child: child, Min: 1, Max: Unbounded}
	case '{':
		return &Repeat{Child: child, Min: q.Min, Max: q.Max}
	default:
		panic(fmt.Sprintf("ast: unknown quantifier op %q", q.Op))
	}
}

func consumesExactlyOneByte(n Node) bool {
	switch n.(type) {
	case *Literal, *OneOf, *Range, *AnyByte:
		return true
	default:
		return false
	}
}

func caseClose(lo, hi byte) Node {
	var set ByteSet
	set.Add(lo)
	addCaseTwin(&set, lo)
	if hi != lo {
		set.Add(hi)
		addCaseTwin(&set, hi)
	}
	if len(set.Bytes()) == 1 {
		return &Literal{B: lo}
	}
	return &OneOf{Set: set}
}

// addCaseTwin adds the opposite-case letter for b to set, if b is a letter.
func addCaseTwin(set *ByteSet, b byte) {
	switch {
	case b >= 'a' && b <= 'z':
		set.Add(b - 'a' + 'A')
	case b >= 'A' && b <= 'Z':
		set.Add(b - 'A' + 'a')
	}
}
