package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// ChapterRepository provides access to the static chapter catalog. The
// catalog is read once from a JSON asset; its order is the unlock chain.
type ChapterRepository struct {
	chapters []entities.Chapter
	byID     map[int]int // chapter id -> index in chapters
}

// NewChapterRepository loads the catalog from the given JSON file.
func NewChapterRepository(path string) (*ChapterRepository, error) {
	chapters, err := loadChapters(path)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]int, len(chapters))
	for i, ch := range chapters {
		byID[ch.ID] = i
	}

	return &ChapterRepository{chapters: chapters, byID: byID}, nil
}

// All returns every chapter in catalog order.
func (r *ChapterRepository) All() []entities.Chapter {
	return r.chapters
}

// ByID returns the chapter with the given id.
func (r *ChapterRepository) ByID(id int) (*entities.Chapter, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return &r.chapters[i], true
}

func loadChapters(path string) ([]entities.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chapters file: %w", err)
	}

	var wrapper struct {
		Chapters []entities.Chapter `json:"chapters"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapters JSON: %w", err)
	}

	if len(wrapper.Chapters) == 0 {
		return nil, fmt.Errorf("chapters file %s is empty", path)
	}

	return wrapper.Chapters, nil
}
