package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func casablanca(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Casablanca")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestCheck(t *testing.T) {
	s := &models.AccessSchedule{
		StartTime:  "08:00:00",
		EndTime:    "18:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5, 6},
		DetailedSchedules: models.NewDetailedSchedules(map[int]models.DaySlot{
			6: {StartTime: "09:00", EndTime: "12:00"},
		}),
		IsActive: true,
	}
	// 2024-03-04 is a Monday.
	at := func(day, hour, minute int) time.Time { return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC) }
	tests := []struct {
		name    string
		s       *models.AccessSchedule
		now     time.Time
		allowed bool
		reason  string
	}{
		{"no schedule", nil, at(10, 3, 0), true, ""},
		{"inside window", s, at(4, 10, 0), true, ""},
		{"end inclusive", s, at(4, 18, 0), true, ""},
		{"after end", s, at(4, 18, 1), false, ReasonHour},
		{"before start", s, at(5, 7, 59), false, ReasonHour},
		{"saturday detailed window", s, at(9, 12, 30), false, ReasonHour},
		{"saturday morning", s, at(9, 9, 30), true, ""},
		{"sunday", s, at(10, 10, 0), false, ReasonDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := Check(tt.s, tt.now, time.UTC)
			if dec.Allowed != tt.allowed || dec.Reason != tt.reason {
				t.Errorf("got %+v", dec)
			}
		})
	}
}

func TestCheckUsesLocation(t *testing.T) {
	loc := casablanca(t)
	s := &models.AccessSchedule{StartTime: "08:00", EndTime: "18:00", DaysOfWeek: []int{1, 2, 3, 4, 5, 6, 7}}
	now := time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC).In(loc)
	dec := Check(s, now, loc)
	want := now.Format("15:04")
	if dec.CurrentTime != want {
		t.Fatalf("current time %q, want %q", dec.CurrentTime, want)
	}
}

func TestISOWeekday(t *testing.T) {
	if ISOWeekday(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) != 7 {
		t.Fatal("sunday must be 7")
	}
	if ISOWeekday(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) != 1 {
		t.Fatal("monday must be 1")
	}
}

func TestCheckerLenientAndStrict(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatal(err)
	}
	u := models.User{CIN: "X1", Password: "x"}
	gdb.Create(&u)
	s := models.AccessSchedule{UserID: u.ID, StartTime: "08:00", EndTime: "09:00", DaysOfWeek: []int{1}, IsActive: true}
	gdb.Create(&s)
	gdb.Model(&s).Update("is_active", false)

	sunday := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	c := NewChecker(gdb, time.UTC).WithClock(sunday)
	ctx := context.Background()

	dec, err := c.Lenient(ctx, u.ID)
	if err != nil || !dec.Allowed {
		t.Fatalf("lenient should ignore inactive schedule: %+v %v", dec, err)
	}
	dec, err = c.Strict(ctx, u.ID)
	if err != nil || dec.Allowed || dec.Reason != ReasonDisabled {
		t.Fatalf("strict should deny disabled schedule: %+v %v", dec, err)
	}

	gdb.Model(&s).Update("is_active", true)
	dec, _ = c.Lenient(ctx, u.ID)
	if dec.Allowed || dec.Reason != ReasonDay {
		t.Fatalf("active schedule should deny sunday: %+v", dec)
	}
	dec, _ = c.Strict(ctx, 999)
	if !dec.Allowed || dec.HasSchedule {
		t.Fatalf("no schedule should allow: %+v", dec)
	}
}

func TestDecisionLocalize(t *testing.T) {
	d := Decision{Reason: ReasonHour, Start: "08:00", End: "12:00"}
	d.Localize("en")
	if d.Message != "Access allowed from 08:00 to 12:00" {
		t.Errorf("hour message = %q", d.Message)
	}
	d = Decision{Reason: ReasonDay}
	d.Localize("fr")
	if d.Message != "Accès non autorisé ce jour" {
		t.Errorf("day message = %q", d.Message)
	}
	d = Decision{Allowed: true, Message: "keep"}
	d.Localize("en")
	if d.Message != "keep" {
		t.Errorf("allowed decision changed: %q", d.Message)
	}
}
