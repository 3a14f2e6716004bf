// Package plan implements the path planner: it walks a normalized AST
// against a fixed content length using only plaintext cursor arithmetic,
// producing a set of plaintext execution paths before any FHE primitive is
// ever invoked. Infeasible paths (wrong length, anchor violated) are
// pruned here, in plaintext, so the circuit builder never sees them.
package plan

import "github.com/go-fhe/hregex/ast"

// Kind identifies the shape of an atomic predicate.
type Kind int

const (
	KindEq Kind = iota
	KindGe
	KindLe
	KindTrue
	KindFalse
	// KindOneOf is lowered as an OR-fold over per-byte Eq predicates.
	KindOneOf
	// KindInRange is lowered as an AND of a Ge and a Le predicate. It only
	// ever appears as the Inner predicate of a Not — a standalone Range
	// emits its Ge and Le as two separate top-level predicates instead,
	// per the planner algorithm.
	KindInRange
	// KindNot is lowered via the server key's Not over its Inner predicate.
	KindNot
)

// Predicate is one atomic, plaintext-enumerated constraint on a single
// content position. Its structural identity — (Kind, Index, Const) for the
// byte-level kinds — is the circuit builder's memoization key.
type Predicate struct {
	Kind   Kind
	Index  int
	Const  byte       // Eq, Ge, Le
	Lo, Hi byte        // InRange
	Set    ast.ByteSet // OneOf
	Inner  *Predicate  // Not
}

func eqPred(i int, b byte) Predicate    { return Predicate{Kind: KindEq, Index: i, Const: b} }
func gePred(i int, b byte) Predicate    { return Predicate{Kind: KindGe, Index: i, Const: b} }
func lePred(i int, b byte) Predicate    { return Predicate{Kind: KindLe, Index: i, Const: b} }
func truePred() Predicate               { return Predicate{Kind: KindTrue} }
func oneOfPred(i int, s ast.ByteSet) Predicate {
	return Predicate{Kind: KindOneOf, Index: i, Set: s}
}
func inRangePred(i int, lo, hi byte) Predicate {
	return Predicate{Kind: KindInRange, Index: i, Lo: lo, Hi: hi}
}
func notPred(inner Predicate) Predicate { return Predicate{Kind: KindNot, Inner: &inner} }

// Path is a plaintext conjunction of predicates plus the cursor positions it
// started and ended at. Start is carried for memo locality only, never for
// correctness.
type Path struct {
	Preds []Predicate
	Start int
	End   int
}

// contNode is a cons cell over the AST nodes still to be matched after the
// current one; several frames can share a tail, which is what lets Alt and
// Optional branch without recopying the continuation.
type contNode struct {
	node ast.Node
	rest *contNode
}

func cons(n ast.Node, rest *contNode) *contNode { return &contNode{node: n, rest: rest} }

// frame is one pending unit of work on the planner's explicit stack.
type frame struct {
	cursor int
	k      *contNode
	preds  []Predicate
}

// Build enumerates every surviving execution path of root against content
// of the given length, trying every candidate starting index. An empty
// result means the pattern provably cannot match content of this length.
func Build(root ast.Node, length int) []Path {
	var paths []Path
	for s := 0; s <= length; s++ {
		stack := []frame{{cursor: s, k: cons(root, nil), preds: nil}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.k == nil {
				paths = append(paths, Path{Preds: f.preds, Start: s, End: f.cursor})
				continue
			}
			stack = step(f, length, stack)
		}
	}
	return paths
}

// step expands one frame by one AST node, pushing its successor frame(s)
// onto stack (dropping the frame entirely where the node's match is
// infeasible — that is the pruning the package doc promises).
func step(f frame, length int, stack []frame) []frame {
	node, rest := f.k.node, f.k.rest

	switch n := node.(type) {
	case *ast.Concat:
		k := rest
		for i := len(n.Nodes) - 1; i >= 0; i-- {
			k = cons(n.Nodes[i], k)
		}
		return append(stack, frame{cursor: f.cursor, k: k, preds: f.preds})

	case *ast.Literal:
		if f.cursor >= length {
			return stack
		}
		return append(stack, frame{cursor: f.cursor + 1, k: rest, preds: extend(f.preds, eqPred(f.cursor, n.B))})

	case *ast.AnyByte:
		if f.cursor >= length {
			return stack
		}
		return append(stack, frame{cursor: f.cursor + 1, k: rest, preds: extend(f.preds, truePred())})

	case *ast.OneOf:
		if f.cursor >= length {
			return stack
		}
		return append(stack, frame{cursor: f.cursor + 1, k: rest, preds: extend(f.preds, oneOfPred(f.cursor, n.Set))})

	case *ast.Range:
		if f.cursor >= length {
			return stack
		}
		preds := extend(f.preds, gePred(f.cursor, n.Lo))
		preds = extend(preds, lePred(f.cursor, n.Hi))
		return append(stack, frame{cursor: f.cursor + 1, k: rest, preds: preds})

	case *ast.Not:
		if f.cursor >= length {
			return stack
		}
		p := negatedAtomicPredicate(n.Child, f.cursor)
		return append(stack, frame{cursor: f.cursor + 1, k: rest, preds: extend(f.preds, p)})

	case *ast.AnchorStart:
		if f.cursor != 0 {
			return stack
		}
		return append(stack, frame{cursor: f.cursor, k: rest, preds: f.preds})

	case *ast.AnchorEnd:
		if f.cursor != length {
			return stack
		}
		return append(stack, frame{cursor: f.cursor, k: rest, preds: f.preds})

	case *ast.Alt:
		stack = append(stack, frame{cursor: f.cursor, k: cons(n.L, rest), preds: f.preds})
		stack = append(stack, frame{cursor: f.cursor, k: cons(n.R, rest), preds: f.preds})
		return stack

	case *ast.Optional:
		stack = append(stack, frame{cursor: f.cursor, k: rest, preds: f.preds}) // skip
		stack = append(stack, frame{cursor: f.cursor, k: cons(n.Child, rest), preds: f.preds}) // take
		return stack

	case *ast.Repeat:
		return expandRepeat(n, f, length, rest, stack)

	default:
		// Every Node variant is handled above; an unrecognized type means a
		// bug upstream (normalize guarantees the canonical set), not a
		// plan-time error — drop the frame rather than fabricate a match.
		return stack
	}
}

func expandRepeat(n *ast.Repeat, f frame, length int, rest *contNode, stack []frame) []frame {
	maxK := n.Max
	if maxK == ast.Unbounded {
		if mc := minConsumption(n.Child); mc > 0 {
			maxK = (length - f.cursor) / mc
		} else {
			// The child can match the empty string; cap the repeat count at
			// the content length itself, per this module's documented
			// resolution of the "unbounded Repeat" ambiguity.
			maxK = length
		}
		if maxK < n.Min {
			maxK = n.Min
		}
	}
	for k := n.Min; k <= maxK; k++ {
		chain := rest
		for i := 0; i < k; i++ {
			chain = cons(n.Child, chain)
		}
		stack = append(stack, frame{cursor: f.cursor, k: chain, preds: f.preds})
	}
	return stack
}

// minConsumption returns a sound lower bound on the number of content bytes
// n must consume to match, used only to bound an unbounded Repeat.
func minConsumption(n ast.Node) int {
	switch v := n.(type) {
	case *ast.Literal, *ast.AnyByte, *ast.OneOf, *ast.Range, *ast.Not:
		return 1
	case *ast.AnchorStart, *ast.AnchorEnd, *ast.Optional:
		return 0
	case *ast.Concat:
		sum := 0
		for _, c := range v.Nodes {
			sum += minConsumption(c)
		}
		return sum
	case *ast.Alt:
		l, r := minConsumption(v.L), minConsumption(v.R)
		if l < r {
			return l
		}
		return r
	case *ast.Repeat:
		return v.Min * minConsumption(v.Child)
	default:
		return 0
	}
}

// negatedAtomicPredicate builds the single predicate representing "one byte
// that does not match child", for child one of the single-byte-consuming
// variants Normalize guarantees.
func negatedAtomicPredicate(child ast.Node, i int) Predicate {
	switch v := child.(type) {
	case *ast.Literal:
		return notPred(eqPred(i, v.B))
	case *ast.OneOf:
		return notPred(oneOfPred(i, v.Set))
	case *ast.Range:
		return notPred(inRangePred(i, v.Lo, v.Hi))
	case *ast.AnyByte:
		return notPred(truePred())
	default:
		// Unreachable once Normalize has run.
		return notPred(truePred())
	}
}

func extend(preds []Predicate, p Predicate) []Predicate {
	out := make([]Predicate, len(preds)+1)
	copy(out, preds)
	out[len(preds)] = p
	return out
}
