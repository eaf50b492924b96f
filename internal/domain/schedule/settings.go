package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidWorkingWindow = errors.New("day start must be before day end")
	ErrLunchOutsideWindow   = errors.New("lunch window must sit inside the working day")
	ErrInvalidSlotDuration  = errors.New("slot duration must be a positive number of minutes")
	ErrInvalidAdvanceDays   = errors.New("advance days must be positive")
	ErrInvalidLinkLifetime  = errors.New("link lifetime must be positive")
)

// Settings is a technician's recurring weekly availability. It is a value
// object: the booking flow only ever reads it.
type Settings struct {
	workDays     map[time.Weekday]bool
	dayStart     TimeOfDay
	dayEnd       TimeOfDay
	lunch        *LunchWindow
	slotMinutes  int
	advanceDays  int
	linkLifetime time.Duration
}

func NewSettings(
	workDays []time.Weekday,
	dayStart, dayEnd TimeOfDay,
	lunch *LunchWindow,
	slotMinutes int,
	advanceDays int,
	linkLifetime time.Duration,
) (Settings, error) {
	if !dayStart.Before(dayEnd) {
		return Settings{}, ErrInvalidWorkingWindow
	}
	if lunch != nil {
		if lunch.Start().Before(dayStart) || lunch.End().After(dayEnd) {
			return Settings{}, ErrLunchOutsideWindow
		}
	}
	if slotMinutes <= 0 {
		return Settings{}, ErrInvalidSlotDuration
	}
	if advanceDays <= 0 {
		return Settings{}, ErrInvalidAdvanceDays
	}
	if linkLifetime <= 0 {
		return Settings{}, ErrInvalidLinkLifetime
	}

	days := make(map[time.Weekday]bool, len(workDays))
	for _, d := range workDays {
		days[d] = true
	}

	return Settings{
		workDays:     days,
		dayStart:     dayStart,
		dayEnd:       dayEnd,
		lunch:        lunch,
		slotMinutes:  slotMinutes,
		advanceDays:  advanceDays,
		linkLifetime: linkLifetime,
	}, nil
}

// DefaultSettings covers technicians who never configured a schedule:
// Mon-Fri 09:00-18:00, lunch 12:00-13:00, 60-minute slots, 30-day horizon,
// 48-hour booking links.
func DefaultSettings() Settings {
	start, _ := NewTimeOfDay(9, 0)
	end, _ := NewTimeOfDay(18, 0)
	lunchStart, _ := NewTimeOfDay(12, 0)
	lunchEnd, _ := NewTimeOfDay(13, 0)
	lunch, _ := NewLunchWindow(lunchStart, lunchEnd)

	s, _ := NewSettings(
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		start, end, &lunch, 60, 30, 48*time.Hour,
	)
	return s
}

func (s Settings) WorksOn(day time.Weekday) bool { return s.workDays[day] }

func (s Settings) WorkDays() []time.Weekday {
	out := make([]time.Weekday, 0, len(s.workDays))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.workDays[d] {
			out = append(out, d)
		}
	}
	return out
}

func (s Settings) DayStart() TimeOfDay          { return s.dayStart }
func (s Settings) DayEnd() TimeOfDay            { return s.dayEnd }
func (s Settings) Lunch() *LunchWindow          { return s.lunch }
func (s Settings) SlotMinutes() int             { return s.slotMinutes }
func (s Settings) AdvanceDays() int             { return s.advanceDays }
func (s Settings) LinkLifetime() time.Duration  { return s.linkLifetime }
