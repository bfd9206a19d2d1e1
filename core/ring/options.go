// File: core/ring/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
)

// OverflowPolicy selects what Write does when the buffer is full.
type OverflowPolicy int

const (
	// OverwriteHead releases the element at head and stores the new element in
	// that slot; head and count stay put, so the new element is read next.
	OverwriteHead OverflowPolicy = iota
	// DropOldest releases the element at head and advances head, so the new
	// element becomes the newest one.
	DropOldest
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverwriteHead:
		return "overwrite-head"
	case DropOldest:
		return "drop-oldest"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", int(p))
	}
}

// ParseOverflowPolicy maps a policy name back to its value.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "overwrite-head":
		return OverwriteHead, nil
	case "drop-oldest":
		return DropOldest, nil
	}
	return 0, api.NewError(api.ErrCodeInvalidArgument, "unknown overflow policy").
		WithContext("policy", s)
}

// Option configures a Buffer at construction.
type Option[T any] func(*Buffer[T])

// WithAllocator sets the strategy used to release evicted and destroyed elements.
func WithAllocator[T any](a api.Allocator[T]) Option[T] {
	return func(b *Buffer[T]) {
		if a != nil {
			b.alloc = a
		}
	}
}

// WithLogger attaches a logger for eviction and teardown events.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(b *Buffer[T]) {
		if l != nil {
			b.log = l
		}
	}
}

// WithOverflowPolicy overrides the default OverwriteHead policy.
func WithOverflowPolicy[T any](p OverflowPolicy) Option[T] {
	return func(b *Buffer[T]) {
		b.policy = p
	}
}
