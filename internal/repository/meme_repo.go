package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memelab/memelab/internal/domain"
)

// StoredMemeRepository handles stored-meme data operations.
type StoredMemeRepository struct {
	db *gorm.DB
}

// NewStoredMemeRepository creates a new StoredMemeRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *StoredMemeRepository: repository instance bound to db.
func NewStoredMemeRepository(db *gorm.DB) *StoredMemeRepository {
	return &StoredMemeRepository{db: db}
}

// Create inserts a new stored meme, assigning an ID and creation time when
// they are missing.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - meme: record to persist; ID and CreatedAt are filled in place.
// Returns:
//   - error: non-nil if the insert fails.
func (r *StoredMemeRepository) Create(ctx context.Context, meme *domain.StoredMeme) error {
	if strings.TrimSpace(meme.ID) == "" {
		meme.ID = uuid.New().String()
	}
	if meme.CreatedAt.IsZero() {
		meme.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(meme).Error
}

// List returns stored memes newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.StoredMeme: stored memes ordered by creation time descending.
//   - error: non-nil if the query fails.
func (r *StoredMemeRepository) List(ctx context.Context) ([]domain.StoredMeme, error) {
	var memes []domain.StoredMeme
	if err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&memes).Error; err != nil {
		return nil, err
	}
	return memes, nil
}
