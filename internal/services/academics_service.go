package services

import (
	"context"
	"fmt"

	"scholaris/internal/models"
	"scholaris/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AcademicsService covers classes, schedules, curriculum maps, transcripts
// and achievements.
type AcademicsService interface {
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, tenantID, id uuid.UUID) (*models.Class, error)
	UpdateClass(ctx context.Context, class *models.Class) error
	DeactivateClass(ctx context.Context, tenantID, id uuid.UUID) error
	ListClasses(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Class, error)

	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error
	ClassTimetable(ctx context.Context, tenantID, classID uuid.UUID) ([]*models.Schedule, error)
	TeacherTimetable(ctx context.Context, tenantID, teacherID uuid.UUID) ([]*models.Schedule, error)

	CreateCurriculumMap(ctx context.Context, m *models.CurriculumMap) error
	GetCurriculumMap(ctx context.Context, tenantID, id uuid.UUID) (*CurriculumMapDetail, error)
	DeleteCurriculumMap(ctx context.Context, tenantID, id uuid.UUID) error
	ListCurriculumMaps(ctx context.Context, tenantID uuid.UUID, schoolYear string) ([]*models.CurriculumMap, error)
	AddCurriculumUnit(ctx context.Context, unit *models.CurriculumUnit) error
	AddCurriculumTopic(ctx context.Context, topic *models.CurriculumTopic) error

	AddTranscriptEntry(ctx context.Context, transcript *models.Transcript) error
	StudentTranscript(ctx context.Context, tenantID, studentID uuid.UUID, schoolYear string) ([]*models.Transcript, error)

	AwardAchievement(ctx context.Context, achievement *models.Achievement) error
	RevokeAchievement(ctx context.Context, tenantID, id uuid.UUID) error
	StudentAchievements(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Achievement, error)
}

// CurriculumMapDetail is a map with its units and their topics resolved.
type CurriculumMapDetail struct {
	Map   *models.CurriculumMap  `json:"map"`
	Units []*CurriculumUnitDetail `json:"units"`
}

type CurriculumUnitDetail struct {
	Unit   *models.CurriculumUnit    `json:"unit"`
	Topics []*models.CurriculumTopic `json:"topics"`
}

type academicsService struct {
	classRepo       repositories.ClassRepository
	scheduleRepo    repositories.ScheduleRepository
	curriculumRepo  repositories.CurriculumRepository
	transcriptRepo  repositories.TranscriptRepository
	achievementRepo repositories.AchievementRepository
	logger          zerolog.Logger
}

func NewAcademicsService(classRepo repositories.ClassRepository, scheduleRepo repositories.ScheduleRepository, curriculumRepo repositories.CurriculumRepository, transcriptRepo repositories.TranscriptRepository, achievementRepo repositories.AchievementRepository, logger zerolog.Logger) AcademicsService {
	return &academicsService{
		classRepo:       classRepo,
		scheduleRepo:    scheduleRepo,
		curriculumRepo:  curriculumRepo,
		transcriptRepo:  transcriptRepo,
		achievementRepo: achievementRepo,
		logger:          logger,
	}
}

func (s *academicsService) CreateClass(ctx context.Context, class *models.Class) error {
	if class.ID == uuid.Nil {
		class.ID = uuid.New()
	}
	if class.Status == "" {
		class.Status = models.ClassStatusActive
	}
	return s.classRepo.Create(ctx, class)
}

func (s *academicsService) GetClass(ctx context.Context, tenantID, id uuid.UUID) (*models.Class, error) {
	return s.classRepo.GetByID(ctx, tenantID, id)
}

func (s *academicsService) UpdateClass(ctx context.Context, class *models.Class) error {
	return s.classRepo.Update(ctx, class)
}

func (s *academicsService) DeactivateClass(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.classRepo.Deactivate(ctx, tenantID, id)
}

func (s *academicsService) ListClasses(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Class, error) {
	return s.classRepo.List(ctx, tenantID, limit, offset)
}

func (s *academicsService) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := validateScheduleSlot(schedule); err != nil {
		return err
	}
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	return s.scheduleRepo.Create(ctx, schedule)
}

func (s *academicsService) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := validateScheduleSlot(schedule); err != nil {
		return err
	}
	return s.scheduleRepo.Update(ctx, schedule)
}

func validateScheduleSlot(schedule *models.Schedule) error {
	if schedule.DayOfWeek < 1 || schedule.DayOfWeek > 7 {
		return fmt.Errorf("day_of_week must be between 1 (Monday) and 7 (Sunday)")
	}
	if schedule.StartTime >= schedule.EndTime {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

func (s *academicsService) DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scheduleRepo.Delete(ctx, tenantID, id)
}

func (s *academicsService) ClassTimetable(ctx context.Context, tenantID, classID uuid.UUID) ([]*models.Schedule, error) {
	return s.scheduleRepo.ListByClass(ctx, tenantID, classID)
}

func (s *academicsService) TeacherTimetable(ctx context.Context, tenantID, teacherID uuid.UUID) ([]*models.Schedule, error) {
	return s.scheduleRepo.ListByTeacher(ctx, tenantID, teacherID)
}

func (s *academicsService) CreateCurriculumMap(ctx context.Context, m *models.CurriculumMap) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return s.curriculumRepo.CreateMap(ctx, m)
}

func (s *academicsService) GetCurriculumMap(ctx context.Context, tenantID, id uuid.UUID) (*CurriculumMapDetail, error) {
	m, err := s.curriculumRepo.GetMap(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	units, err := s.curriculumRepo.ListUnits(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	detail := &CurriculumMapDetail{Map: m}
	for _, unit := range units {
		topics, err := s.curriculumRepo.ListTopics(ctx, tenantID, unit.ID)
		if err != nil {
			return nil, err
		}
		detail.Units = append(detail.Units, &CurriculumUnitDetail{Unit: unit, Topics: topics})
	}
	return detail, nil
}

func (s *academicsService) DeleteCurriculumMap(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.curriculumRepo.DeleteMap(ctx, tenantID, id)
}

func (s *academicsService) ListCurriculumMaps(ctx context.Context, tenantID uuid.UUID, schoolYear string) ([]*models.CurriculumMap, error) {
	return s.curriculumRepo.ListMaps(ctx, tenantID, schoolYear)
}

func (s *academicsService) AddCurriculumUnit(ctx context.Context, unit *models.CurriculumUnit) error {
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	return s.curriculumRepo.CreateUnit(ctx, unit)
}

func (s *academicsService) AddCurriculumTopic(ctx context.Context, topic *models.CurriculumTopic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	return s.curriculumRepo.CreateTopic(ctx, topic)
}

func (s *academicsService) AddTranscriptEntry(ctx context.Context, transcript *models.Transcript) error {
	if transcript.ID == uuid.Nil {
		transcript.ID = uuid.New()
	}
	return s.transcriptRepo.Create(ctx, transcript)
}

func (s *academicsService) StudentTranscript(ctx context.Context, tenantID, studentID uuid.UUID, schoolYear string) ([]*models.Transcript, error) {
	return s.transcriptRepo.ListByStudent(ctx, tenantID, studentID, schoolYear)
}

func (s *academicsService) AwardAchievement(ctx context.Context, achievement *models.Achievement) error {
	if achievement.ID == uuid.Nil {
		achievement.ID = uuid.New()
	}
	return s.achievementRepo.Create(ctx, achievement)
}

func (s *academicsService) RevokeAchievement(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.achievementRepo.Delete(ctx, tenantID, id)
}

func (s *academicsService) StudentAchievements(ctx context.Context, tenantID, studentID uuid.UUID) ([]*models.Achievement, error) {
	return s.achievementRepo.ListByStudent(ctx, tenantID, studentID)
}
