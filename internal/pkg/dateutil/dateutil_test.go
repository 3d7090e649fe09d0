package dateutil

import (
	"testing"
	"time"
)

func TestFromUnix(t *testing.T) {
	if got := FromUnix(0); got != nil {
		t.Fatalf("FromUnix(0) = %v, want nil", got)
	}
	if got := FromUnix(-5); got != nil {
		t.Fatalf("FromUnix(-5) = %v, want nil", got)
	}

	got := FromUnix(1735689600) // 2025-01-01T00:00:00Z
	if got == nil {
		t.Fatal("FromUnix returned nil for a positive timestamp")
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("FromUnix = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("FromUnix location = %v, want UTC", got.Location())
	}
}

func TestDayStartEnd(t *testing.T) {
	in := time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)

	start := DayStart(in)
	if want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("DayStart = %v, want %v", start, want)
	}

	end := DayEnd(in)
	if want := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("DayEnd = %v, want %v", end, want)
	}
}

func TestDayStartNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on the 2nd in UTC+5 is still the 1st in UTC.
	in := time.Date(2025, 6, 2, 2, 30, 0, 0, zone)

	start := DayStart(in)
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("DayStart = %v, want %v", start, want)
	}
}

func TestDayWindow(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		offset    int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{0, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)},
		{-3, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 11, 23, 59, 59, 0, time.UTC)},
		{7, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 21, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		start, end := DayWindow(now, tt.offset)
		if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
			t.Fatalf("DayWindow(%d) = [%v, %v], want [%v, %v]",
				tt.offset, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestDayRange(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	start, end := DayRange(now, 0, 3)
	if want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("DayRange start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 3, 17, 23, 59, 59, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("DayRange end = %v, want %v", end, want)
	}
}
