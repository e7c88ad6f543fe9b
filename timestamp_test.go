package cfat

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeDecodeTimestampRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)
	date, tm, tenths, err := encodeTimestamp(in)
	if err != nil {
		t.Fatalf("encodeTimestamp: %v", err)
	}
	if tenths != 0 {
		t.Errorf("tenths = %d, want 0", tenths)
	}

	out, err := decodeTimestamp(date, tm)
	if err != nil {
		t.Fatalf("decodeTimestamp: %v", err)
	}
	if out.Year != 2024 || out.Month != 3 || out.Day != 15 {
		t.Errorf("date mismatch: %+v", out)
	}
	if out.Hour != 13 || out.Minute != 45 {
		t.Errorf("time mismatch: %+v", out)
	}
	// seconds are packed at 2-second granularity.
	if out.Second != 30 {
		t.Errorf("Second = %d, want 30", out.Second)
	}
}

func TestEncodeTimestampSecondGranularity(t *testing.T) {
	in := time.Date(2024, time.March, 15, 13, 45, 31, 0, time.UTC)
	date, tm, _, err := encodeTimestamp(in)
	if err != nil {
		t.Fatalf("encodeTimestamp: %v", err)
	}
	out, err := decodeTimestamp(date, tm)
	if err != nil {
		t.Fatalf("decodeTimestamp: %v", err)
	}
	if out.Second != 30 {
		t.Errorf("Second = %d, want odd second truncated to 30", out.Second)
	}
}

func TestEncodeTimestampYearBoundaries(t *testing.T) {
	cases := []struct {
		year    int
		wantErr bool
	}{
		{1979, true},
		{1980, false},
		{2107, false},
		{2108, true},
	}
	for _, c := range cases {
		in := time.Date(c.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		_, _, _, err := encodeTimestamp(in)
		if c.wantErr && !errors.Is(err, ErrYearOutOfRange) {
			t.Errorf("year %d: err = %v, want ErrYearOutOfRange", c.year, err)
		}
		if !c.wantErr && err != nil {
			t.Errorf("year %d: unexpected error %v", c.year, err)
		}
	}
}

func TestTimestampTime(t *testing.T) {
	ts := Timestamp{Year: 2026, Month: 1, Day: 2, Hour: 3, Minute: 4, Second: 6}
	got := ts.Time(time.UTC)
	want := time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
