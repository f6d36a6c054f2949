package entities

// Chapter is one entry of the static catalog. RequiredToUnlock points at the
// chapter that must be completed first; nil means the chapter is always open.
type Chapter struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Icon             string `json:"icon"`
	Description      string `json:"description"`
	Intro            string `json:"intro"`
	RequiredToUnlock *int   `json:"requiredToUnlock"`
}

// ChapterStatus is a chapter annotated with the current user's view of it.
type ChapterStatus struct {
	Chapter
	IsCompleted bool `json:"isCompleted"`
	IsAvailable bool `json:"isAvailable"`
}
