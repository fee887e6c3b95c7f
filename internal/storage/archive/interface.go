// Package archive provides append-only cold storage for completed run
// artifacts. Runs are historical records: backends expose write, read
// and list, never delete.
package archive

import "context"

// Storage is the interface archive backends implement. Paths are
// slash-separated and relative to the backend root, e.g.
// "runs/<run-id>/backtest_results.csv".
type Storage interface {
	// Write stores data at the given path, creating parents as needed.
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
