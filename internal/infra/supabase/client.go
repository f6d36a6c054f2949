package supabase

import (
	"context"
	"fmt"
	"strings"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// Client is the remote sync adapter over a Supabase project. It mirrors
// player progress into the 'players' table and enforces nickname uniqueness
// through the 'handles' table, whose lowercase handle column carries a unique
// constraint.
type Client struct {
	client *supa.Client
	logger *zap.Logger
}

// playerRow matches the 'players' table.
type playerRow struct {
	Nickname string            `json:"nickname"`
	Progress entities.Progress `json:"progress"`
}

// handleRow matches the 'handles' table.
type handleRow struct {
	Handle   string `json:"handle"`
	Nickname string `json:"nickname"`
}

// New connects to the Supabase project.
func New(url, key string, logger *zap.Logger) (*Client, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to supabase: %w", err)
	}

	return &Client{client: client, logger: logger}, nil
}

// ClaimNickname transactionally claims the lowercase handle. A unique-key
// violation means another identity owns it and maps to ErrNicknameTaken.
func (c *Client) ClaimNickname(_ context.Context, nickname string) error {
	row := handleRow{
		Handle:   strings.ToLower(strings.TrimSpace(nickname)),
		Nickname: nickname,
	}

	var inserted []handleRow
	_, err := c.client.From("handles").Insert(row, false, "", "", "").ExecuteTo(&inserted)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrNicknameTaken
		}
		return fmt.Errorf("claim handle: %w", err)
	}

	c.logger.Debug("nickname claimed", zap.String("handle", row.Handle))
	return nil
}

// SavePlayer upserts the player's progress snapshot.
func (c *Client) SavePlayer(_ context.Context, nickname string, progress *entities.Progress) error {
	row := playerRow{Nickname: nickname, Progress: *progress}

	var saved []playerRow
	_, err := c.client.From("players").Insert(row, true, "nickname", "", "").ExecuteTo(&saved)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}

	return nil
}

// LoadPlayer fetches the mirrored progress for a nickname, absent when no row
// exists.
func (c *Client) LoadPlayer(_ context.Context, nickname string) (*entities.Progress, bool, error) {
	var rows []playerRow
	_, err := c.client.From("players").
		Select("*", "exact", false).
		Eq("nickname", nickname).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, false, fmt.Errorf("load player: %w", err)
	}

	if len(rows) == 0 {
		return nil, false, nil
	}
	return &rows[0].Progress, true, nil
}

// DeletePlayer removes the mirrored row and releases the handle.
func (c *Client) DeletePlayer(_ context.Context, nickname string) error {
	var deleted []playerRow
	_, err := c.client.From("players").
		Delete("", "").
		Eq("nickname", nickname).
		ExecuteTo(&deleted)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	var handles []handleRow
	_, err = c.client.From("handles").
		Delete("", "").
		Eq("handle", strings.ToLower(strings.TrimSpace(nickname))).
		ExecuteTo(&handles)
	if err != nil {
		// The player row is already gone; an orphaned handle only blocks
		// nickname reuse, so report and move on.
		c.logger.Warn("failed to release handle",
			zap.String("nickname", nickname),
			zap.Error(err),
		)
	}

	return nil
}

// isUniqueViolation detects a Postgres unique-key error surfaced through
// PostgREST. The error arrives as text, so match on the SQLSTATE and the
// standard message.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
