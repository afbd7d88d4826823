package models

import (
	"time"

	"gorm.io/datatypes"
)

// DaySlot overrides the default window for one weekday.
type DaySlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AccessSchedule restricts when an employee may use the application.
// Weekdays are numbered 1 (Monday) to 7 (Sunday).
type AccessSchedule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID            uint                                 `gorm:"uniqueIndex;not null" json:"user_id"`
	StartTime         string                               `gorm:"size:5;not null;default:'08:00'" json:"start_time"`
	EndTime           string                               `gorm:"size:5;not null;default:'18:00'" json:"end_time"`
	DaysOfWeek        datatypes.JSONSlice[int]             `json:"days_of_week"`
	DetailedSchedules datatypes.JSONType[map[int]DaySlot] `json:"detailed_schedules"`
	IsActive          bool                                 `gorm:"not null;default:true" json:"is_active"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// DefaultDays is Monday to Friday.
var DefaultDays = []int{1, 2, 3, 4, 5}

// Days returns the configured weekdays, DefaultDays when none are set.
func (s *AccessSchedule) Days() []int {
	if len(s.DaysOfWeek) == 0 {
		return DefaultDays
	}
	return s.DaysOfWeek
}

// Window returns the start and end of the allowed window for weekday.
func (s *AccessSchedule) Window(weekday int) (string, string) {
	if slot, ok := s.DetailedSchedules.Data()[weekday]; ok && slot.StartTime != "" && slot.EndTime != "" {
		return slot.StartTime, slot.EndTime
	}
	return s.StartTime, s.EndTime
}

// NewDetailedSchedules wraps per-weekday windows for storage.
func NewDetailedSchedules(m map[int]DaySlot) datatypes.JSONType[map[int]DaySlot] {
	return datatypes.NewJSONType(m)
}
