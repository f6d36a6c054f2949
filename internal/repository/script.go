package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// ScriptRepository provides the per-chapter chatbot scripts. Keyword rules
// keep the order they have in the asset file, first match wins.
type ScriptRepository struct {
	scripts map[int]*entities.Script
}

// NewScriptRepository loads chatbot scripts from the given JSON file.
func NewScriptRepository(path string) (*ScriptRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scripts file: %w", err)
	}

	var wrapper struct {
		Scripts []*entities.Script `json:"scripts"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scripts JSON: %w", err)
	}

	scripts := make(map[int]*entities.Script, len(wrapper.Scripts))
	for _, s := range wrapper.Scripts {
		scripts[s.ChapterID] = s
	}

	return &ScriptRepository{scripts: scripts}, nil
}

// ByChapter returns the script bound to the chapter, if one exists.
func (r *ScriptRepository) ByChapter(chapterID int) (*entities.Script, bool) {
	s, ok := r.scripts[chapterID]
	return s, ok
}
