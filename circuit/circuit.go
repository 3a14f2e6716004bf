// Package circuit lowers the plaintext execution paths produced by plan
// into a single fhe.CT match bit, calling each homomorphic primitive at
// most once per distinct predicate key. The only plaintext values it ever
// touches are path shapes and predicate constants; the content it folds
// over never leaves ciphertext form.
package circuit

import (
	"context"
	"sync"

	"github.com/go-fhe/hregex/fhe"
	"github.com/go-fhe/hregex/plan"
)

// PredKey is the memoization key for one atomic predicate: its kind, the
// content index it constrains, and the constant(s) it compares against.
// Two predicates with equal PredKeys always lower to the same CT, so the
// cache need only ever call the server key once per key.
type PredKey struct {
	Kind   plan.Kind
	Index  int
	Const  byte
	Lo, Hi byte
	SetKey string // Bytes() of the OneOf set, serialized for comparability
}

func keyOf(p plan.Predicate) PredKey {
	k := PredKey{Kind: p.Kind, Index: p.Index, Const: p.Const, Lo: p.Lo, Hi: p.Hi}
	if p.Kind == plan.KindOneOf {
		k.SetKey = string(p.Set.Bytes())
	}
	return k
}

// Cache memoizes predicate lowering for one circuit.Build call. It must
// never be shared across calls: a cache scoped to a single call is what
// keeps the server key invocation count a pure function of (pattern,
// len(content)), independent of the content's plaintext.
type Cache struct {
	mu sync.Mutex
	m  map[PredKey]fhe.CT
}

// NewCache returns an empty, call-scoped predicate cache.
func NewCache() *Cache {
	return &Cache{m: make(map[PredKey]fhe.CT)}
}

// getOrLower returns the cached CT for key, calling fill to compute and
// insert it on a miss. fill is called at most once per key: misses are
// lowered while holding the cache lock, so concurrent misses under
// Options.Parallel are serialized rather than computed twice.
func (c *Cache) getOrLower(key PredKey, fill func() fhe.CT) fhe.CT {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ct, ok := c.m[key]; ok {
		return ct
	}
	ct := fill()
	c.m[key] = ct
	return ct
}

// Options configures one circuit.Build call.
type Options struct {
	// Parallel lowers distinct paths concurrently. Cache misses are still
	// lowered one at a time under the cache's lock, so parallel lowering
	// only pays off once the cache already holds the predicates paths are
	// likely to share, and the default is sequential.
	Parallel bool
}

// Build lowers paths against content under sk into a single match-bit CT,
// reusing cache across every predicate the paths share. It is safe to call
// with an empty paths slice, which lowers to EncryptBit(0) per the
// specified behavior for a provably non-matching pattern.
//
// ctx is checked between path-lowering calls, never inside one: an FHE
// primitive call is never interrupted partway through, only the boundary
// before the next path starts. A canceled ctx aborts with ctx.Err() and an
// unspecified CT.
func Build(ctx context.Context, sk fhe.ServerKey, content []fhe.CT, paths []plan.Path, cache *Cache, opts Options) (fhe.CT, error) {
	if cache == nil {
		cache = NewCache()
	}
	if len(paths) == 0 {
		return sk.EncryptBit(0), nil
	}

	lowered := make([]fhe.CT, len(paths))
	if opts.Parallel && len(paths) > 1 {
		var wg sync.WaitGroup
		errs := make([]error, len(paths))
		wg.Add(len(paths))
		for i, p := range paths {
			go func(i int, p plan.Path) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return
				}
				lowered[i] = lowerPath(sk, content, p, cache)
			}(i, p)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	} else {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			lowered[i] = lowerPath(sk, content, p, cache)
		}
	}

	return balancedFold(lowered, sk.Or), nil
}

// lowerPath AND-folds the lowered form of every predicate in p.
func lowerPath(sk fhe.ServerKey, content []fhe.CT, p plan.Path, cache *Cache) fhe.CT {
	if len(p.Preds) == 0 {
		return sk.EncryptBit(1)
	}
	lowered := make([]fhe.CT, len(p.Preds))
	for i, pred := range p.Preds {
		lowered[i] = lowerPredicate(sk, content, pred, cache)
	}
	return balancedFold(lowered, sk.And)
}

// lowerPredicate lowers one atomic predicate through cache, recursing into
// compound shapes (OneOf, Not) whose own atomic leaves are what actually
// get cached.
func lowerPredicate(sk fhe.ServerKey, content []fhe.CT, p plan.Predicate, cache *Cache) fhe.CT {
	switch p.Kind {
	case plan.KindTrue:
		return sk.EncryptBit(1)
	case plan.KindFalse:
		return sk.EncryptBit(0)
	case plan.KindEq:
		return cache.getOrLower(keyOf(p), func() fhe.CT { return sk.Eq(content[p.Index], p.Const) })
	case plan.KindGe:
		return cache.getOrLower(keyOf(p), func() fhe.CT { return sk.Ge(content[p.Index], p.Const) })
	case plan.KindLe:
		return cache.getOrLower(keyOf(p), func() fhe.CT { return sk.Le(content[p.Index], p.Const) })
	case plan.KindOneOf:
		return lowerOneOf(sk, content, p, cache)
	case plan.KindInRange:
		return lowerInRange(sk, content, p, cache)
	case plan.KindNot:
		inner := lowerPredicate(sk, content, *p.Inner, cache)
		return sk.Not(inner)
	default:
		// Unreachable: plan.Build only ever emits the kinds above.
		return sk.EncryptBit(0)
	}
}

// lowerOneOf ORs together an Eq against every byte in the set, with each
// Eq going through the same cache as a standalone Eq predicate at the same
// index would — a OneOf and a literal that happen to share a byte at the
// same index reuse one cached Eq call.
func lowerOneOf(sk fhe.ServerKey, content []fhe.CT, p plan.Predicate, cache *Cache) fhe.CT {
	bytes := p.Set.Bytes()
	if len(bytes) == 0 {
		return sk.EncryptBit(0)
	}
	terms := make([]fhe.CT, len(bytes))
	for i, b := range bytes {
		eqKey := PredKey{Kind: plan.KindEq, Index: p.Index, Const: b}
		terms[i] = cache.getOrLower(eqKey, func() fhe.CT { return sk.Eq(content[p.Index], b) })
	}
	return balancedFold(terms, sk.Or)
}

// lowerInRange ANDs a Ge and a Le, the shape Not wraps a Range child in.
func lowerInRange(sk fhe.ServerKey, content []fhe.CT, p plan.Predicate, cache *Cache) fhe.CT {
	geKey := PredKey{Kind: plan.KindGe, Index: p.Index, Const: p.Lo}
	leKey := PredKey{Kind: plan.KindLe, Index: p.Index, Const: p.Hi}
	ge := cache.getOrLower(geKey, func() fhe.CT { return sk.Ge(content[p.Index], p.Lo) })
	le := cache.getOrLower(leKey, func() fhe.CT { return sk.Le(content[p.Index], p.Hi) })
	return sk.And(ge, le)
}

// balancedFold combines terms pairwise in a tree shape rather than a
// left-linear chain, keeping multiplicative circuit depth logarithmic in
// the term count instead of linear — FHE noise grows with depth, so this
// is the difference between a circuit that stays decryptable and one that
// does not, for large path or class-set counts.
func balancedFold(terms []fhe.CT, combine func(a, b fhe.CT) fhe.CT) fhe.CT {
	if len(terms) == 0 {
		panic("circuit: balancedFold called with no terms")
	}
	for len(terms) > 1 {
		next := make([]fhe.CT, 0, (len(terms)+1)/2)
		for i := 0; i < len(terms); i += 2 {
			if i+1 < len(terms) {
				next = append(next, combine(terms[i], terms[i+1]))
			} else {
				next = append(next, terms[i])
			}
		}
		terms = next
	}
	return terms[0]
}
