package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Announcements are hard-deleted, unlike the soft-deactivated entities.
type Announcement struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	Audience  string     `json:"audience" db:"audience"` // all, staff, guardians, students
	PostedBy  uuid.UUID  `json:"posted_by" db:"posted_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Location    *string    `json:"location,omitempty" db:"location"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time  `json:"ends_at" db:"ends_at"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	Kind      string     `json:"kind" db:"kind"` // billing, attendance, general, library
	Read      bool       `json:"read" db:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PostMetadata is the typed metadata blob on community posts. Kind selects
// which optional fields apply; validated at the boundary.
type PostMetadata struct {
	Version  int        `json:"version"`
	Kind     string     `json:"kind"` // text, poll, link
	LinkURL  string     `json:"link_url,omitempty"`
	PollOpts []string   `json:"poll_options,omitempty"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

const PostMetadataVersion = 1

// Validate checks the discriminated metadata union.
func (m *PostMetadata) Validate() error {
	if m.Version != PostMetadataVersion {
		return fmt.Errorf("unsupported post metadata version %d", m.Version)
	}
	switch m.Kind {
	case "text":
		return nil
	case "link":
		if m.LinkURL == "" {
			return fmt.Errorf("link posts require link_url")
		}
	case "poll":
		if len(m.PollOpts) < 2 {
			return fmt.Errorf("poll posts require at least two options")
		}
	default:
		return fmt.Errorf("post kind must be one of text, poll, link")
	}
	return nil
}

type CommunityPost struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	TenantID  uuid.UUID    `json:"tenant_id" db:"tenant_id"`
	AuthorID  uuid.UUID    `json:"author_id" db:"author_id"`
	Title     string       `json:"title" db:"title"`
	Body      string       `json:"body" db:"body"`
	Metadata  PostMetadata `json:"metadata" db:"metadata"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

type ConsentForm struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	EventID     *uuid.UUID `json:"event_id,omitempty" db:"event_id"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ConsentResponse is unique per (form, student).
type ConsentResponse struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FormID      uuid.UUID `json:"form_id" db:"form_id"`
	StudentID   uuid.UUID `json:"student_id" db:"student_id"`
	GuardianID  uuid.UUID `json:"guardian_id" db:"guardian_id"`
	Granted     bool      `json:"granted" db:"granted"`
	RespondedAt time.Time `json:"responded_at" db:"responded_at"`
}
