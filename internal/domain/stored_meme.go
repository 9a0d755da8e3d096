package domain

import "time"

// StoredMeme is a user-submitted meme kept in the stored-meme list. The
// default backing store is an in-memory SQLite database, so entries live
// only for the process lifetime.
type StoredMeme struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	ImageURL  string    `gorm:"type:text;not null" json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for StoredMeme.
func (StoredMeme) TableName() string {
	return "stored_memes"
}
