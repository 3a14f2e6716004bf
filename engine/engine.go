// Package engine is the facade over the rest of this module: it drives a
// pattern through parser.Parse, ast.Normalize and plan.Build, lowers the
// resulting paths with circuit.Build, and returns the single match-bit
// ciphertext. It also offers key generation and ASCII encryption helpers
// so a caller never has to reach into the fhe package directly for the
// common path.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-fhe/hregex/ast"
	"github.com/go-fhe/hregex/circuit"
	"github.com/go-fhe/hregex/fhe"
	"github.com/go-fhe/hregex/hgerrors"
	"github.com/go-fhe/hregex/parser"
	"github.com/go-fhe/hregex/plan"
)

// Options configures one HasMatch call.
type Options struct {
	// Parallel enables concurrent path lowering in the circuit builder.
	Parallel bool
	// Logger receives Debug-level instrumentation (path and predicate
	// counts only, never plaintext or pattern-dependent branch outcomes).
	// A nil Logger is treated as zap.NewNop().
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// HasMatch evaluates pattern against content and returns the single
// ciphertext match bit. content must already be under sk's matching
// client key (see EncryptASCII). The returned error, when non-nil, always
// wraps an *hgerrors.Error and never a CT.
func HasMatch(ctx context.Context, sk fhe.ServerKey, content []fhe.CT, pattern string, opts Options) (fhe.CT, error) {
	callID := uuid.New()
	log := opts.logger().With(zap.String("call_id", callID.String()))

	root, ignoreCase, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}

	normalized, err := ast.Normalize(root, ignoreCase)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, hgerrors.New(hgerrors.PatternSyntax, fmt.Errorf("match canceled before planning: %w", err))
	}

	paths := plan.Build(normalized, len(content))
	log.Debug("planned paths", zap.Int("path_count", len(paths)), zap.Int("content_length", len(content)))

	if err := ctx.Err(); err != nil {
		return nil, hgerrors.New(hgerrors.PatternSyntax, fmt.Errorf("match canceled after planning: %w", err))
	}

	cache := circuit.NewCache()
	result, err := circuit.Build(ctx, sk, content, paths, cache, circuit.Options{Parallel: opts.Parallel})
	if err != nil {
		return nil, hgerrors.New(hgerrors.PatternSyntax, fmt.Errorf("match canceled during circuit lowering: %w", err))
	}

	predicateCount := 0
	for _, p := range paths {
		predicateCount += len(p.Preds)
	}
	log.Debug("lowered circuit", zap.Int("predicate_count", predicateCount))

	return result, nil
}

// GenKeys returns a matching (ClientKey, ServerKey) pair over the mock
// backend. A real deployment supplies its own key pair from a lattice-based
// scheme implementing fhe.ServerKey and fhe.ClientKey directly.
func GenKeys() (fhe.ClientKey, fhe.ServerKey) {
	return fhe.NewMock()
}

// EncryptASCII encrypts every byte of s under ck, failing with an
// hgerrors.NonAsciiContent error on the first byte outside the 7-bit ASCII
// range — this module's content model has no representation for anything
// wider.
func EncryptASCII(ck fhe.ClientKey, s string) ([]fhe.CT, error) {
	out := make([]fhe.CT, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x80 {
			return nil, hgerrors.New(hgerrors.NonAsciiContent,
				fmt.Errorf("byte %d at offset %d is outside 7-bit ASCII", b, i))
		}
		out[i] = ck.Encrypt(b)
	}
	return out, nil
}
