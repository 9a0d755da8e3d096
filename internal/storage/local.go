package storage

// LocalResolver serves offline assets from the API process itself, so asset
// URLs are rooted at whatever host the client reached.
type LocalResolver struct{}

// NewLocalResolver creates a resolver for locally served assets.
func NewLocalResolver() *LocalResolver {
	return &LocalResolver{}
}

// Base returns the request's own scheme://host as the asset base.
func (r *LocalResolver) Base(requestBase string) string {
	return requestBase
}
