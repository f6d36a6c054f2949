package entities

// ScriptResponse is one keyword rule of a chapter script. Rules are matched
// in slice order, so the catalog keeps them as an ordered list rather than a
// map.
type ScriptResponse struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
}

// Script is the static chatbot script bound to one chapter.
type Script struct {
	ChapterID       int              `json:"chapterId"`
	Intro           string           `json:"intro"`
	Responses       []ScriptResponse `json:"responses"`
	DefaultResponse string           `json:"defaultResponse"`
}
