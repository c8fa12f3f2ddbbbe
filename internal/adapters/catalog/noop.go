package catalog

import "context"

// NoopClient is a catalog stub for development and tests. Searches come back
// empty and lookups report the entry as missing, so queue views degrade to
// titles without covers.
type NoopClient struct{}

// NewNoopClient creates a new NoopClient.
func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

// Search returns no results.
func (c *NoopClient) Search(_ context.Context, _ string, _ int) ([]Entry, error) {
	return nil, nil
}

// GetByID reports every entry as missing.
func (c *NoopClient) GetByID(_ context.Context, _ int64) (Entry, bool, error) {
	return Entry{}, false, nil
}
