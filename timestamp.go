package cfat

import (
	"errors"
	"time"
)

// Timestamp Codec: packs/unpacks the FAT-style date and time
// words. Field layout and masks are grounded on the packed direntry found in
// _examples/other_examples (vsrinivas-fuchsia thinfs msdosfs direntry_short.go),
// adjusted to this format's 2-byte date/time pair plus a separate tenths byte.
const (
	timeSecondMask  = 0x1F
	timeSecondShift = 0
	timeMinuteMask  = 0x7E0
	timeMinuteShift = 5
	timeHourMask    = 0xF800
	timeHourShift   = 11

	dateDayMask    = 0x1F
	dateDayShift   = 0
	dateMonthMask  = 0x1E0
	dateMonthShift = 5
	dateYearMask   = 0xFE00
	dateYearShift  = 9

	epochYear = 1980
	maxYear   = epochYear + 127 // 7-bit year offset in the packed date word
)

// ErrYearOutOfRange is returned by encodeTimestamp when the year falls
// outside the representable range (1980..2107).
var ErrYearOutOfRange = errors.New("cfat: year out of representable range (1980-2107)")

// Timestamp is a decoded wall-clock value: calendar fields plus the
// tenths-of-a-second byte the format carries separately from the 2-second
// granularity of the packed time word.
type Timestamp struct {
	Year, Month, Day      int
	Hour, Minute, Second  int
	Tenths                uint8
}

// encodeTimestamp packs t into (date, time) words. Tenths is always
// encoded as 0 on writes; the 2-second granularity of the packed time
// word can't represent it anyway.
func encodeTimestamp(t time.Time) (date, tm uint16, tenths uint8, err error) {
	if t.Year() < epochYear || t.Year() > maxYear {
		return 0, 0, 0, ErrYearOutOfRange
	}

	date = uint16(t.Year()-epochYear)<<dateYearShift&dateYearMask |
		uint16(t.Month())<<dateMonthShift&dateMonthMask |
		uint16(t.Day())<<dateDayShift&dateDayMask

	tm = uint16(t.Hour())<<timeHourShift&timeHourMask |
		uint16(t.Minute())<<timeMinuteShift&timeMinuteMask |
		uint16(t.Second()/2)<<timeSecondShift&timeSecondMask

	return date, tm, 0, nil
}

// decodeTimestamp is the inverse of encodeTimestamp.
func decodeTimestamp(date, tm uint16) (Timestamp, error) {
	return Timestamp{
		Year:   int((date&dateYearMask)>>dateYearShift) + epochYear,
		Month:  int((date & dateMonthMask) >> dateMonthShift),
		Day:    int((date & dateDayMask) >> dateDayShift),
		Hour:   int((tm & timeHourMask) >> timeHourShift),
		Minute: int((tm & timeMinuteMask) >> timeMinuteShift),
		Second: int((tm&timeSecondMask)>>timeSecondShift) * 2,
	}, nil
}

// Time converts a Timestamp to a time.Time in the given location.
func (t Timestamp) Time(loc *time.Location) time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}
