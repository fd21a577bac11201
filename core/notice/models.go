package notice

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
)

type Notice struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	AuthorID   string              `json:"authorId"`
	AuthorName string              `json:"authorName,omitempty"`
	// Reactions maps an emoji to the set of user ids that reacted with it.
	Reactions map[string][]string `json:"reactions,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type NewNotice struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (nn *NewNotice) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Content = core.CleanString(nn.Content)
	return validate.Struct(nn)
}

type Reaction struct {
	Emoji string `json:"emoji" validate:"required"`
}

func (r *Reaction) Validate(validate *validator.Validate) error {
	r.Emoji = core.CleanString(r.Emoji)
	return validate.Struct(r)
}
