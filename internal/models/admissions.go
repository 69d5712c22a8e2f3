package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Application struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ApplicantFirst  string     `json:"applicant_first_name" db:"applicant_first_name"`
	ApplicantLast   string     `json:"applicant_last_name" db:"applicant_last_name"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	GuardianName    string     `json:"guardian_name" db:"guardian_name"`
	GuardianEmail   *string    `json:"guardian_email,omitempty" db:"guardian_email"`
	GuardianPhone   *string    `json:"guardian_phone,omitempty" db:"guardian_phone"`
	GradeApplied    string     `json:"grade_applied" db:"grade_applied"`
	DocumentKey     *string    `json:"document_key,omitempty" db:"document_key"` // MinIO object for uploaded papers
	Status          string     `json:"status" db:"status"`
	ReviewNote      *string    `json:"review_note,omitempty" db:"review_note"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	SubmittedAt     time.Time  `json:"submitted_at" db:"submitted_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	ApplicationSubmitted   = "SUBMITTED"
	ApplicationUnderReview = "UNDER_REVIEW"
	ApplicationAccepted    = "ACCEPTED"
	ApplicationRejected    = "REJECTED"
	ApplicationWaitlisted  = "WAITLISTED"
)

// applicationTransitions holds the allowed forward moves. Terminal states
// have no exits; reviews cannot be undone through the API.
var applicationTransitions = map[string][]string{
	ApplicationSubmitted:   {ApplicationUnderReview},
	ApplicationUnderReview: {ApplicationAccepted, ApplicationRejected, ApplicationWaitlisted},
	ApplicationWaitlisted:  {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionApplication reports whether moving from to next is a legal
// forward transition.
func CanTransitionApplication(from, next string) error {
	for _, allowed := range applicationTransitions[from] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("application cannot move from %s to %s", from, next)
}
