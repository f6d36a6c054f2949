// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

const (
	msgWelcome = "Welcome to the Escape Room! 🗝\n\n" +
		"Log in with /login <nickname> [pin] to start playing.\n" +
		"The PIN is optional: 4 digits that protect your nickname on this bot.\n\n" +
		"Type /help to see every command."

	msgHelp = "Commands:\n\n" +
		"/login <nickname> [pin] — log in or create a player\n" +
		"/logout — log out (progress is kept)\n" +
		"/chapters — list chapters and pick one to play\n" +
		"/play <n> — open chapter n\n" +
		"/complete — mark the open chapter as completed\n" +
		"/reset [n] — restart a chapter conversation\n" +
		"/profile — show your progress\n" +
		"/delete — permanently delete your account"

	msgLoginUsage      = "Usage: /login <nickname> [pin]"
	msgIncorrectPIN    = "Incorrect PIN for this nickname."
	msgNicknameTaken   = "This nickname is already taken. Pick another one."
	msgNotLoggedIn     = "You are not logged in. Use /login <nickname> [pin] first."
	msgLoggedOut       = "You are logged out. Your progress is saved."
	msgNoChapterOpen   = "No chapter is open. Use /chapters to pick one."
	msgChapterLocked   = "This chapter is still locked. Finish the previous one first. 🔒"
	msgChapterUnknown  = "There is no such chapter."
	msgEmptyMessage    = "Message cannot be empty."
	msgMessageTooLong  = "Message is too long (max 500 characters)."
	msgInternalError   = "Something went wrong. Please try again later."
	msgDeleteCancelled = "Deletion cancelled. Your account is safe."
	msgDeleteDone      = "Your account has been deleted. Use /login to start over."
	msgResetUsage      = "Usage: /reset <chapter number>, or open a chapter first."
	msgUnknownCommand  = "Unknown command. Type /help to see what I understand."
)

func formatLoggedIn(user *entities.User, mode string) string {
	if mode == "created" {
		return fmt.Sprintf("Welcome, %s! Your adventure begins. Use /chapters to enter the first room.", user.Nickname)
	}
	return fmt.Sprintf("Welcome back, %s! You have completed %d chapter(s). Use /chapters to continue.",
		user.Nickname, user.Progress.ChaptersCompleted)
}

func formatDeleteConfirm(nickname string) string {
	return fmt.Sprintf("Are you sure you want to permanently delete your account \"%s\"? All progress will be lost.", nickname)
}

func formatProfile(user *entities.User) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("👤 %s\n", user.Nickname))
	sb.WriteString(fmt.Sprintf("Joined: %s\n\n", user.JoinedAt.Format("2 Jan 2006")))
	sb.WriteString(fmt.Sprintf("Chapters completed: %d\n", user.Progress.ChaptersCompleted))
	sb.WriteString(fmt.Sprintf("Puzzles solved: %d\n", user.Progress.PuzzlesSolved))
	sb.WriteString(fmt.Sprintf("Time played: %d min\n", user.Progress.TotalTimePlayed))
	sb.WriteString(fmt.Sprintf("Best score: %d", user.Progress.BestScore))

	return sb.String()
}

func formatChapterList(statuses []entities.ChapterStatus) string {
	var sb strings.Builder

	sb.WriteString("Chapters:\n\n")
	for _, st := range statuses {
		mark := "🔒"
		switch {
		case st.IsCompleted:
			mark = "✅"
		case st.IsAvailable:
			mark = st.Icon
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s — %s\n", mark, st.ID, st.Title, st.Description))
	}
	sb.WriteString("\nTap a chapter below or use /play <n>.")

	return sb.String()
}

func formatChapterOpened(ch *entities.Chapter) string {
	return fmt.Sprintf("%s Chapter %d: %s\n\n%s", ch.Icon, ch.ID, ch.Title, ch.Intro)
}

func formatCompleted(ch *entities.Chapter) string {
	return fmt.Sprintf("🎉 Chapter %d \"%s\" completed! Check /chapters for what you unlocked.", ch.ID, ch.Title)
}

func formatReplay(messages []entities.Message) string {
	// Show the tail of the conversation so the player can pick up the thread.
	const tail = 5

	start := 0
	if len(messages) > tail {
		start = len(messages) - tail
	}

	var sb strings.Builder
	sb.WriteString("Picking up where you left off:\n")
	for _, m := range messages[start:] {
		prefix := "🤖"
		if m.Role == entities.RoleUser {
			prefix = "🗣"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s", prefix, m.Text))
	}

	return sb.String()
}
