package domain

import "time"

// Meme represents a single shareable meme produced by the content cursor,
// either from the upstream Reddit listing or from the offline cache.
// Values are immutable once returned; ownership transfers to the caller.
type Meme struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	Author    string    `json:"author"`
	Ups       int       `json:"ups"`
	Permalink string    `json:"permalink"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageCursor is the resumable position in the upstream listing. When Offline
// is true the meme came from the local cache and After is always nil, since
// the cache has no pagination.
type PageCursor struct {
	After   *string `json:"after"`
	Offline bool    `json:"offline"`
	Reason  string  `json:"reason,omitempty"`
}
