package dateutil

import "time"

// FromUnix converts provider epoch seconds into an absolute UTC instant.
// Zero and negative timestamps yield nil so optional provider fields stay unset.
func FromUnix(ts int64) *time.Time {
	if ts <= 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}

// DayStart normalizes t to 00:00:00 UTC of its day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd normalizes t to 23:59:59 UTC of its day.
func DayEnd(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// DayWindow returns the inclusive [00:00:00, 23:59:59] window of the day that
// lies offsetDays away from now. Negative offsets select past days.
func DayWindow(now time.Time, offsetDays int) (time.Time, time.Time) {
	day := now.UTC().AddDate(0, 0, offsetDays)
	return DayStart(day), DayEnd(day)
}

// DayRange returns the window spanning from the start of the day startOffset
// days away through the end of the day endOffset days away.
func DayRange(now time.Time, startOffset, endOffset int) (time.Time, time.Time) {
	start, _ := DayWindow(now, startOffset)
	_, end := DayWindow(now, endOffset)
	return start, end
}
