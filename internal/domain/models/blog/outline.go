package blog

import "time"

// OutlineDraft is the structured result of one outline completion, before persistence.
type OutlineDraft struct {
	Title       string   `json:"title"`
	MainKeyword string   `json:"main_keyword"`
	KeyPoints   []string `json:"key_points"`
}

// Outline is one immutable generation result. Rows are only ever inserted.
type Outline struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	PostID      *string    `json:"blog_post_id"`
	Title       string     `json:"title"`
	MainKeyword string     `json:"main_keyword"`
	KeyPoints   []string   `json:"key_points"`
	Brief       Brief      `json:"brief"`
	CreatedAt   time.Time  `json:"created_at"`
	Feedback    []Feedback `json:"feedback,omitempty"`
}

// Draft returns the generated fields of the outline.
func (o *Outline) Draft() OutlineDraft {
	return OutlineDraft{
		Title:       o.Title,
		MainKeyword: o.MainKeyword,
		KeyPoints:   o.KeyPoints,
	}
}

// Feedback is a user's free-text critique of an outline.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OutlineID string    `json:"outline_id"`
	Text      string    `json:"feedback_text"`
	CreatedAt time.Time `json:"created_at"`
}
