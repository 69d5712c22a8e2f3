package models

import (
	"time"

	"github.com/google/uuid"
)

type Class struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name       string     `json:"name" db:"name"`
	GradeLevel string     `json:"grade_level" db:"grade_level"`
	TeacherID  *uuid.UUID `json:"teacher_id,omitempty" db:"teacher_id"` // class teacher
	Capacity   int        `json:"capacity" db:"capacity"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	ClassStatusActive      = "active"
	ClassStatusDeactivated = "deactivated"
)

type Schedule struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ClassID   uuid.UUID  `json:"class_id" db:"class_id"`
	TeacherID uuid.UUID  `json:"teacher_id" db:"teacher_id"`
	Subject   string     `json:"subject" db:"subject"`
	DayOfWeek int        `json:"day_of_week" db:"day_of_week"` // 1=Monday .. 7=Sunday
	StartTime string     `json:"start_time" db:"start_time"`   // HH:MM
	EndTime   string     `json:"end_time" db:"end_time"`
	RoomID    *uuid.UUID `json:"room_id,omitempty" db:"room_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type CurriculumMap struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Subject    string    `json:"subject" db:"subject"`
	GradeLevel string    `json:"grade_level" db:"grade_level"`
	SchoolYear string    `json:"school_year" db:"school_year"`
	CreatedBy  uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CurriculumUnit struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	MapID       uuid.UUID `json:"map_id" db:"map_id"`
	Title       string    `json:"title" db:"title"`
	Position    int       `json:"position" db:"position"`
	DurationWks int       `json:"duration_weeks" db:"duration_weeks"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CurriculumTopic struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UnitID    uuid.UUID `json:"unit_id" db:"unit_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	Objective *string   `json:"objective,omitempty" db:"objective"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Transcript is one academic record line for a student.
type Transcript struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	StudentID  uuid.UUID `json:"student_id" db:"student_id"`
	SchoolYear string    `json:"school_year" db:"school_year"`
	Term       string    `json:"term" db:"term"`
	Subject    string    `json:"subject" db:"subject"`
	Grade      string    `json:"grade" db:"grade"`
	Remarks    *string   `json:"remarks,omitempty" db:"remarks"`
	IssuedBy   uuid.UUID `json:"issued_by" db:"issued_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Achievement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	StudentID   uuid.UUID `json:"student_id" db:"student_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	AwardedAt   time.Time `json:"awarded_at" db:"awarded_at"`
	AwardedBy   uuid.UUID `json:"awarded_by" db:"awarded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
