package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/memelab/memelab/internal/config"
	"github.com/memelab/memelab/internal/domain"
)

func newTestRepo(t *testing.T) *StoredMemeRepository {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	return NewStoredMemeRepository(db)
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)

	meme := &domain.StoredMeme{Title: "first", ImageURL: "https://example.com/1.png"}
	if err := repo.Create(context.Background(), meme); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meme.ID == "" {
		t.Error("expected generated ID")
	}
	if meme.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	titles := []string{"oldest", "middle", "newest"}
	for i, title := range titles {
		meme := &domain.StoredMeme{
			Title:     title,
			ImageURL:  "https://example.com/" + title + ".png",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), meme); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	memes, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(memes) != 3 {
		t.Fatalf("expected 3 memes, got %d", len(memes))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, title := range want {
		if memes[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, memes[i].Title)
		}
	}
}
