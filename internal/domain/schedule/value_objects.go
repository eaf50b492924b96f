package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
)

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"
)

// TimeOfDay is a wall-clock minute offset inside a day. Slot arithmetic is
// pure integer math on minutes, so no timezone conversions can sneak in.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return TimeOfDay{minutes: t.minutes + minutes}
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.minutes > other.minutes }
func (t TimeOfDay) Equal(other TimeOfDay) bool  { return t.minutes == other.minutes }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Date is a calendar day with no time component.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// DateOf truncates an instant to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d Date) AddDays(n int) Date {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) Equal(other Date) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

func (d Date) Before(other Date) bool {
	return d.toUTC().Before(other.toUTC())
}

func (d Date) After(other Date) bool {
	return d.toUTC().After(other.toUTC())
}

// At anchors the date and wall-clock time in loc.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, t.Minutes()/60, t.Minutes()%60, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) toUTC() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// LunchWindow is a half-open [start, end) exclusion inside the working day.
type LunchWindow struct {
	start TimeOfDay
	end   TimeOfDay
}

func NewLunchWindow(start, end TimeOfDay) (LunchWindow, error) {
	if !start.Before(end) {
		return LunchWindow{}, errors.New("lunch start must be before lunch end")
	}
	return LunchWindow{start: start, end: end}, nil
}

func (w LunchWindow) Start() TimeOfDay { return w.start }
func (w LunchWindow) End() TimeOfDay   { return w.end }

// Overlaps reports whether [slotStart, slotEnd) intersects the window.
func (w LunchWindow) Overlaps(slotStart, slotEnd TimeOfDay) bool {
	return slotStart.Before(w.end) && slotEnd.After(w.start)
}
