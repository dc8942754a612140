package pagekv

import "go.uber.org/zap"

// MergeOp folds an incoming byte payload into an existing value during
// version-chain snapshot reads. existing is nil when there is no prior
// base to fold onto. It is always passed as an explicit function value
// -- never stored as a type-erased pointer and reinterpreted, as one
// historical revision of the source this package is modeled on did.
type MergeOp func(key Bytes, existing *Bytes, incoming Bytes) *Bytes

// Config carries the knobs the core state machines need from the layer
// above them.
type Config struct {
	// MergeOperator is consulted by Versions.Visible whenever folding a
	// Merge version requires combining it with a base value (or with
	// nothing, for the merge-without-base case). Required whenever a read
	// reaches a Merge version before any Set or Del base; Visible returns
	// ErrMergeOperatorRequired in that case when it is nil.
	MergeOperator MergeOp

	// MaxNodeSizeBytes is the threshold Node.ShouldSplit compares a
	// node's estimated size against.
	MaxNodeSizeBytes uint64

	// Logger is the structured logger carried alongside the other knobs.
	// Nothing in this package writes to it; the pagestore implementations
	// take their own logger through their constructors. A nil Logger is
	// treated as zap.NewNop().
	Logger *zap.Logger
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
