package content

import "github.com/hesedu/shikshya/core"

// News item types
const (
	NewsEvent       = "event"
	NewsNotice      = "notice"
	NewsAchievement = "achievement"
)

// Assignment is homework targeted at a class; students tick themselves off
// on completion.
type Assignment struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subject     string   `json:"subject"`
	ClassTarget string   `json:"class_target"`
	DueDate     string   `json:"due_date"`
	CreatedBy   string   `json:"created_by"`
	CompletedBy []string `json:"completed_by"` // student UIDs
}

type NewsItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url,omitempty"`
	Type     string `json:"type"`
	PostedAt string `json:"posted_at"`
	PostedBy string `json:"posted_by"`
}

type NewAssignment struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"required"`
	ClassTarget string `json:"class_target" validate:"required"`
	DueDate     string `json:"due_date" validate:"required,date"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Subject = core.CleanString(na.Subject)
	return core.Validate.Struct(na)
}

type NewNewsItem struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Type     string `json:"type" validate:"required,oneof=event notice achievement"`
}

func (nn *NewNewsItem) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	return core.Validate.Struct(nn)
}
