// Package cache memoises derived counts for the lifetime of one run.
package cache

import (
	"fmt"

	"github.com/ppiankov/morphprod/internal/model"
)

// Cache stores count triples by key
type Cache interface {
	Get(key string) (model.Counts, bool)
	Set(key string, value model.Counts)
	Delete(key string)
	Clear()
	Len() int
}

// WindowKey identifies a window span for a given source
func WindowKey(source string, start, width int) string {
	return fmt.Sprintf("morphprod:v1:%s:%d:%d", source, start, width)
}
