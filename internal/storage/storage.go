// Package storage persists per-post view and reaction counters.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// DefaultReactionKinds is the number of reaction buttons shown under a post.
const DefaultReactionKinds = 4

// ErrInvalidReaction is returned for a reaction index outside [0, kinds).
var ErrInvalidReaction = errors.New("invalid reaction index")

// Counter stores view and reaction counts keyed by post id.
type Counter interface {
	// IncrementViews adds one view and returns the new total.
	IncrementViews(ctx context.Context, id string) (int64, error)
	// Views returns the view totals for ids, in order. Unknown ids count 0.
	Views(ctx context.Context, ids ...string) ([]int64, error)
	// AddReaction adds one reaction of kind index and returns all kinds' totals.
	AddReaction(ctx context.Context, id string, index int) ([]int64, error)
	// Reactions returns the totals for every reaction kind.
	Reactions(ctx context.Context, id string) ([]int64, error)
	Close() error
}

func checkReaction(index, kinds int) error {
	if index < 0 || index >= kinds {
		return fmt.Errorf("%w: %d (have %d kinds)", ErrInvalidReaction, index, kinds)
	}
	return nil
}

func kindsOrDefault(kinds int) int {
	if kinds <= 0 {
		return DefaultReactionKinds
	}
	return kinds
}
