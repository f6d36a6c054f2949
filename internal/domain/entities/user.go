package entities

import "time"

// Message roles within a chapter conversation.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// SessionState is the coarse lifecycle tag of a chapter conversation.
// It is an open-ended string: the core only ever moves it from
// StateNotStarted to StateStarted, anything beyond that belongs to callers.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateStarted    SessionState = "started"
)

// Message is a single conversation entry. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChapterSession holds the per-chapter message log and its lifecycle state.
// Messages are append-only: never reordered, never deleted (a Reset replaces
// the whole session instead).
type ChapterSession struct {
	State    SessionState `json:"state"`
	Messages []Message    `json:"messages"`
}

// Append adds a message to the log and moves a fresh session into the
// started state.
func (cs *ChapterSession) Append(role, text string, at time.Time) {
	if cs.State == StateNotStarted {
		cs.State = StateStarted
	}
	cs.Messages = append(cs.Messages, Message{Role: role, Text: text, Timestamp: at})
}

// Progress is the embedded per-user progress record.
// ChaptersCompleted is derived from CompletedChapters and must never be
// maintained independently; MarkCompleted is the only mutation point for both.
type Progress struct {
	ChaptersCompleted int                     `json:"chaptersCompleted"`
	PuzzlesSolved     int                     `json:"puzzlesSolved"`
	TotalTimePlayed   int                     `json:"totalTimePlayed"`
	BestScore         int                     `json:"bestScore"`
	CompletedChapters []int                   `json:"completedChapters"`
	ChapterData       map[int]*ChapterSession `json:"chapterData"`
}

// NewProgress returns a zeroed progress record for a freshly created user.
func NewProgress() Progress {
	return Progress{
		CompletedChapters: []int{},
		ChapterData:       make(map[int]*ChapterSession),
	}
}

// HasCompleted reports whether the chapter is in the completed set.
func (p *Progress) HasCompleted(chapterID int) bool {
	for _, id := range p.CompletedChapters {
		if id == chapterID {
			return true
		}
	}
	return false
}

// MarkCompleted adds the chapter to the completed set and recomputes the
// derived counter. Adding an already completed chapter is a no-op.
func (p *Progress) MarkCompleted(chapterID int) {
	if p.HasCompleted(chapterID) {
		return
	}
	p.CompletedChapters = append(p.CompletedChapters, chapterID)
	p.ChaptersCompleted = len(p.CompletedChapters)
}

// EnsureChapterSession returns the session for the chapter, creating an empty
// not_started one if absent. This is the only point where chapter sessions
// come into existence.
func (p *Progress) EnsureChapterSession(chapterID int) *ChapterSession {
	if p.ChapterData == nil {
		p.ChapterData = make(map[int]*ChapterSession)
	}
	cs, ok := p.ChapterData[chapterID]
	if !ok {
		cs = &ChapterSession{State: StateNotStarted, Messages: []Message{}}
		p.ChapterData[chapterID] = cs
	}
	return cs
}

// Clone returns a deep copy, so a snapshot can be handed to an async mirror
// or mutated and persisted as a whole without aliasing the live record.
func (p *Progress) Clone() *Progress {
	cp := *p
	cp.CompletedChapters = append([]int(nil), p.CompletedChapters...)
	cp.ChapterData = make(map[int]*ChapterSession, len(p.ChapterData))
	for id, cs := range p.ChapterData {
		cp.ChapterData[id] = &ChapterSession{
			State:    cs.State,
			Messages: append([]Message(nil), cs.Messages...),
		}
	}
	return &cp
}

// User is an identity plus progress record, uniquely keyed by nickname
// (case-sensitive). PIN is an optional weak gate, nil means no gate.
type User struct {
	Nickname string    `json:"nickname"`
	PIN      *string   `json:"pin"`
	Avatar   *string   `json:"avatar"`
	Progress Progress  `json:"progress"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewUser creates a user with zeroed progress. An empty pin means no PIN gate.
func NewUser(nickname, pin string, joinedAt time.Time) *User {
	u := &User{
		Nickname: nickname,
		Progress: NewProgress(),
		JoinedAt: joinedAt,
	}
	if pin != "" {
		u.PIN = &pin
	}
	return u
}

// UserUpdate lists exactly the mutable fields of a user record. Nil fields
// are left untouched; Progress is replaced as a whole, never deep-merged.
// Nickname and JoinedAt are immutable and deliberately absent.
type UserUpdate struct {
	PIN      *string
	Avatar   *string
	Progress *Progress
}

// Apply merges the update into the user record (shallow field replacement).
func (upd UserUpdate) Apply(u *User) {
	if upd.PIN != nil {
		if *upd.PIN == "" {
			u.PIN = nil
		} else {
			pin := *upd.PIN
			u.PIN = &pin
		}
	}
	if upd.Avatar != nil {
		avatar := *upd.Avatar
		u.Avatar = &avatar
	}
	if upd.Progress != nil {
		u.Progress = *upd.Progress.Clone()
	}
}
