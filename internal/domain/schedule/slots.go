package schedule

import "time"

// Slots computes the bookable start times for date, net of lunch, already
// taken times, and (for the current day) anything at or before now. Pure:
// same inputs, same output.
//
// The grid starts at dayStart and advances by the slot duration. A candidate
// overlapping the lunch window is dropped entirely and the cursor jumps to
// the end of lunch, so no offered slot would be interrupted.
func (s Settings) Slots(date Date, taken []TimeOfDay, now time.Time) []TimeOfDay {
	if !s.WorksOn(date.Weekday()) {
		return nil
	}

	takenSet := make(map[int]bool, len(taken))
	for _, t := range taken {
		takenSet[t.Minutes()] = true
	}

	isToday := date.Equal(DateOf(now))
	nowMinutes := now.Hour()*60 + now.Minute()

	var out []TimeOfDay
	cur := s.dayStart
	for !cur.Add(s.slotMinutes).After(s.dayEnd) {
		if s.lunch != nil && s.lunch.Overlaps(cur, cur.Add(s.slotMinutes)) {
			cur = s.lunch.End()
			continue
		}
		if !takenSet[cur.Minutes()] && (!isToday || cur.Minutes() > nowMinutes) {
			out = append(out, cur)
		}
		cur = cur.Add(s.slotMinutes)
	}
	return out
}

// AvailableDates lists the offerable calendar days: tomorrow through
// tomorrow+advanceDays-1, keeping only configured work days. Days whose
// slots happen to be fully booked are still listed; callers discover
// emptiness by fetching slots per date.
func (s Settings) AvailableDates(now time.Time) []Date {
	today := DateOf(now)
	out := make([]Date, 0, s.advanceDays)
	for i := 1; i <= s.advanceDays; i++ {
		d := today.AddDays(i)
		if s.WorksOn(d.Weekday()) {
			out = append(out, d)
		}
	}
	return out
}

// IsOffered reports whether the calculator would ever offer (date, at):
// the date is inside the advance window and the time sits on the slot grid
// outside lunch. Occupancy and the same-day cutoff are judged separately by
// the caller.
func (s Settings) IsOffered(date Date, at TimeOfDay, now time.Time) bool {
	today := DateOf(now)
	if !date.After(today) || date.After(today.AddDays(s.advanceDays)) {
		return false
	}
	for _, slot := range s.Slots(date, nil, now) {
		if slot.Equal(at) {
			return true
		}
	}
	return false
}
