package clock

import (
	"fmt"
	"sync/atomic"
)

// Sequence returns an IDFunc yielding prefix-1, prefix-2, ... Handy when a
// test needs to predict identifiers.
func Sequence(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
