package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"gorm.io/gorm"
)

type ScheduleService struct {
	DB *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService { return &ScheduleService{DB: db} }

// ScheduleInput is the body of POST and PUT. IsActive defaults to true.
type ScheduleInput struct {
	UserID            uint                   `json:"user_id"`
	StartTime         string                 `json:"start_time"`
	EndTime           string                 `json:"end_time"`
	DaysOfWeek        []int                  `json:"days_of_week"`
	DetailedSchedules map[int]models.DaySlot `json:"detailed_schedules"`
	IsActive          *bool                  `json:"is_active"`
}

func (in ScheduleInput) validate() error {
	v := validation.Violations{}
	if in.UserID == 0 {
		v["user_id"] = "required"
	}
	if in.StartTime != "" {
		validation.Clock("start_time", in.StartTime, v)
	}
	if in.EndTime != "" {
		validation.Clock("end_time", in.EndTime, v)
	}
	if in.StartTime != "" && in.EndTime != "" && v.Empty() && in.EndTime < in.StartTime {
		v["end_time"] = "out_of_range"
	}
	for _, d := range in.DaysOfWeek {
		if d < 1 || d > 7 {
			v["days_of_week"] = "out_of_range"
		}
	}
	for day, slot := range in.DetailedSchedules {
		field := "detailed_schedules." + strconv.Itoa(day)
		if day < 1 || day > 7 {
			v[field] = "out_of_range"
			continue
		}
		validation.Clock(field+".start_time", slot.StartTime, v)
		validation.Clock(field+".end_time", slot.EndTime, v)
	}
	return check(v)
}

func (in ScheduleInput) apply(s *models.AccessSchedule) {
	s.UserID = in.UserID
	s.StartTime = in.StartTime
	if s.StartTime == "" {
		s.StartTime = "08:00"
	}
	s.EndTime = in.EndTime
	if s.EndTime == "" {
		s.EndTime = "18:00"
	}
	days := slices.Clone(in.DaysOfWeek)
	if len(days) == 0 {
		days = slices.Clone(models.DefaultDays)
	}
	slices.Sort(days)
	s.DaysOfWeek = slices.Compact(days)
	detailed := in.DetailedSchedules
	if detailed == nil {
		detailed = map[int]models.DaySlot{}
	}
	s.DetailedSchedules = models.NewDetailedSchedules(detailed)
	s.IsActive = in.IsActive == nil || *in.IsActive
}

func (s *ScheduleService) List(ctx context.Context) ([]models.AccessSchedule, error) {
	out := []models.AccessSchedule{}
	if err := s.DB.WithContext(ctx).Preload("User").Order("user_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list access schedules: %w", err)
	}
	return out, nil
}

func (s *ScheduleService) Get(ctx context.Context, userID uint) (models.AccessSchedule, error) {
	var sc models.AccessSchedule
	if err := s.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&sc).Error; err != nil {
		return sc, notFound("access schedule", err)
	}
	return sc, nil
}

// Create stores a schedule. A user has at most one.
func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (models.AccessSchedule, error) {
	var sc models.AccessSchedule
	if err := in.validate(); err != nil {
		return sc, err
	}
	db := s.DB.WithContext(ctx)
	if err := db.Select("id").First(&models.User{}, in.UserID).Error; err != nil {
		return sc, notFound("user", err)
	}
	var n int64
	if err := db.Model(&models.AccessSchedule{}).Where("user_id = ?", in.UserID).Count(&n).Error; err != nil {
		return sc, fmt.Errorf("check access schedule: %w", err)
	}
	if n > 0 {
		return sc, invalid("user %d already has an access schedule", in.UserID)
	}
	in.apply(&sc)
	if err := db.Create(&sc).Error; err != nil {
		return sc, fmt.Errorf("create access schedule: %w", err)
	}
	return sc, nil
}

func (s *ScheduleService) Update(ctx context.Context, userID uint, in ScheduleInput) (models.AccessSchedule, error) {
	in.UserID = userID
	if err := in.validate(); err != nil {
		return models.AccessSchedule{}, err
	}
	var sc models.AccessSchedule
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&sc).Error; err != nil {
		return sc, notFound("access schedule", err)
	}
	in.apply(&sc)
	if err := s.DB.WithContext(ctx).Save(&sc).Error; err != nil {
		return sc, fmt.Errorf("update access schedule: %w", err)
	}
	return sc, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID uint) error {
	res := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AccessSchedule{})
	if res.Error != nil {
		return fmt.Errorf("delete access schedule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("access schedule", gorm.ErrRecordNotFound)
	}
	return nil
}
