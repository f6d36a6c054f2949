package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

const maxMessageLength = 500

// Input contract violations, distinct so the presentation layer can surface
// different messages. Both wrap entities.ErrValidation.
var (
	ErrEmptyMessage   = fmt.Errorf("%w: message cannot be empty", entities.ErrValidation)
	ErrMessageTooLong = fmt.Errorf("%w: message is too long (max %d characters)", entities.ErrValidation, maxMessageLength)
)

// Fallback lines for chapters the script catalog does not know about.
const (
	fallbackIntro = "Hello! I am here to guide you through this chapter."
	fallbackReply = "I seem to have lost my way. Please try again."
)

// ChatbotService answers player messages from the static per-chapter scripts.
// Matching is a case-insensitive substring check against each keyword in
// script order; the first hit wins, otherwise the default response applies.
type ChatbotService struct {
	scripts ScriptCatalog
}

// NewChatbotService creates a ChatbotService.
func NewChatbotService(scripts ScriptCatalog) *ChatbotService {
	return &ChatbotService{scripts: scripts}
}

// Intro returns the guide's opening line for the chapter.
func (s *ChatbotService) Intro(chapterID int) string {
	script, ok := s.scripts.ByChapter(chapterID)
	if !ok {
		return fallbackIntro
	}
	return script.Intro
}

// Reply produces the scripted response to a player message.
func (s *ChatbotService) Reply(chapterID int, message string) string {
	script, ok := s.scripts.ByChapter(chapterID)
	if !ok {
		return fallbackReply
	}

	lower := strings.ToLower(strings.TrimSpace(message))
	for _, r := range script.Responses {
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Reply
		}
	}

	return script.DefaultResponse
}

// ValidateInput enforces the chat input contract: non-empty after trimming
// and at most 500 characters.
func (s *ChatbotService) ValidateInput(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > maxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
