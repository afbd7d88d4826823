// Package schedule decides whether an employee may use the application at a
// given moment, from their access schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/gorm"
)

// Denial reasons.
const (
	ReasonDay      = "day_not_allowed"
	ReasonHour     = "outside_hours"
	ReasonDisabled = "schedule_disabled"
)

// Decision is the outcome of a check. Times are HH:MM in the business time zone.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message,omitempty"`
	CurrentTime string `json:"current_time"`
	CurrentDay  int    `json:"current_day"`
	Start       string `json:"allowed_start,omitempty"`
	End         string `json:"allowed_end,omitempty"`
	Days        []int  `json:"allowed_days,omitempty"`
	HasSchedule bool   `json:"has_schedule"`
}

// ISOWeekday numbers Monday 1 through Sunday 7.
func ISOWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// Check evaluates s at now, seen in loc. A nil schedule allows access; the
// active flag is the caller's concern.
func Check(s *models.AccessSchedule, now time.Time, loc *time.Location) Decision {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	dec := Decision{Allowed: true, CurrentTime: local.Format("15:04"), CurrentDay: ISOWeekday(local)}
	if s == nil {
		return dec
	}
	dec.HasSchedule = true
	dec.Days = s.Days()
	if !slices.Contains(dec.Days, dec.CurrentDay) {
		dec.Allowed = false
		dec.Reason = ReasonDay
		dec.Message = "Accès non autorisé ce jour"
		return dec
	}
	start, end := s.Window(dec.CurrentDay)
	dec.Start, dec.End = hhmm(start), hhmm(end)
	if dec.CurrentTime < dec.Start || dec.CurrentTime > dec.End {
		dec.Allowed = false
		dec.Reason = ReasonHour
		dec.Message = fmt.Sprintf("Accès autorisé de %s à %s", dec.Start, dec.End)
	}
	return dec
}

// Localize rewrites the denial message in lang.
func (d *Decision) Localize(lang string) {
	switch d.Reason {
	case ReasonDay:
		d.Message = i18n.T(lang, "access_denied_day")
	case ReasonHour:
		d.Message = fmt.Sprintf(i18n.T(lang, "access_denied_time"), d.Start, d.End)
	case ReasonDisabled:
		d.Message = i18n.T(lang, "access_disabled")
	}
}

// Checker loads schedules from the database.
type Checker struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewChecker(db *gorm.DB, loc *time.Location) *Checker {
	return &Checker{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

func (c *Checker) load(ctx context.Context, userID uint) (*models.AccessSchedule, error) {
	var s models.AccessSchedule
	err := c.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load access schedule: %w", err)
	}
	return &s, nil
}

// Lenient ignores inactive schedules.
func (c *Checker) Lenient(ctx context.Context, userID uint) (Decision, error) {
	s, err := c.load(ctx, userID)
	if err != nil {
		return Check(nil, c.now(), c.loc), err
	}
	if s != nil && !s.IsActive {
		s = nil
	}
	return Check(s, c.now(), c.loc), nil
}

// Strict denies users whose schedule was disabled.
func (c *Checker) Strict(ctx context.Context, userID uint) (Decision, error) {
	s, err := c.load(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if s != nil && !s.IsActive {
		dec := Check(nil, c.now(), c.loc)
		dec.HasSchedule = true
		dec.Allowed = false
		dec.Reason = ReasonDisabled
		dec.Message = "Votre accès a été temporairement désactivé"
		return dec, nil
	}
	return Check(s, c.now(), c.loc), nil
}
