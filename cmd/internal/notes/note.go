package notes

import (
	"strings"
	"time"
)

// Note is a user-owned text record. OwnerID never changes after creation.
type Note struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Tag         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateInput is the content of a new note.
type CreateInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
	Tag         string `json:"tag" validate:"max=50"`
}

// Patch carries the fields to change. Nil or blank fields are left as they are;
// other values are trimmed the same way CreateNote trims its input.
type Patch struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Tag         *string `json:"tag" validate:"omitempty,max=50"`
}

// Normalized returns p with values trimmed and blank values dropped.
func (p Patch) Normalized() Patch {
	return Patch{Title: nonEmpty(p.Title), Description: nonEmpty(p.Description), Tag: nonEmpty(p.Tag)}
}

// Empty reports whether applying p would change nothing.
func (p Patch) Empty() bool {
	return nonEmpty(p.Title) == nil && nonEmpty(p.Description) == nil && nonEmpty(p.Tag) == nil
}

// Apply returns n with the non-empty fields of p applied.
func (p Patch) Apply(n Note) Note {
	if v := nonEmpty(p.Title); v != nil {
		n.Title = *v
	}
	if v := nonEmpty(p.Description); v != nil {
		n.Description = *v
	}
	if v := nonEmpty(p.Tag); v != nil {
		n.Tag = *v
	}
	return n
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
