package git

import (
	"context"

	"github.com/quantmind-br/gitdown/internal/reference"
)

// Strategy materialises a parsed reference into a destination directory
type Strategy interface {
	Fetch(ctx context.Context, d reference.Descriptor, dest string, callOpts map[string]any) (*FetchResult, error)
	Name() string
}
