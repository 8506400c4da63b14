package tasks

import (
	"math"
	"time"
)

const (
	secondsPerDay = 86400

	// OLE automation dates count days from 1899-12-30; the representable
	// range runs from 0100-01-01 up to the end of 9999-12-31.
	minOLEDate = -657434.0
	maxOLEDate = 2958466.0

	// File times count 100ns ticks from 1601-01-01 UTC.
	fileTimeTicksPerSecond = 10000000
	fileTimeUnixOffset     = 116444736000000000
	minFileTimeYear        = 1601
	maxFileTimeYear        = 30827
)

var oleOrigin = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// EpochFromOLEDate converts a local-time OLE automation date to unix epoch
// seconds. localOffset is the local zone's offset east of UTC. The value goes
// through the same stages as the system conversion: OLE date to calendar
// time, calendar time to file time, local file time to UTC, UTC file time to
// epoch seconds. calendarToFileTime covers both the calendar to system time
// step and the system time to file time step, since a time.Time already holds
// the broken-down fields. A value that fails any stage converts to 0.
func EpochFromOLEDate(date float64, localOffset time.Duration) int64 {
	wall, ok := oleDateToCalendar(date)
	if !ok {
		return 0
	}
	ft, ok := calendarToFileTime(wall)
	if !ok {
		return 0
	}
	ft, ok = localFileTimeToUTC(ft, localOffset)
	if !ok {
		return 0
	}
	return fileTimeToUnix(ft)
}

// LocalOffset returns the offset east of UTC in effect at t
func LocalOffset(t time.Time) time.Duration {
	_, offset := t.Zone()
	return time.Duration(offset) * time.Second
}

// oleDateToCalendar splits the date into whole days and a time-of-day
// fraction. For negative dates the fraction still counts forward from
// midnight, so -1.25 is 1899-12-29 06:00. Sub-second precision is rounded off.
// The returned time carries the wall clock in a UTC location.
func oleDateToCalendar(date float64) (time.Time, bool) {
	if math.IsNaN(date) || date < minOLEDate || date >= maxOLEDate {
		return time.Time{}, false
	}

	days := math.Trunc(date)
	seconds := math.Round(math.Abs(date-days) * secondsPerDay)

	wall := oleOrigin.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
	return wall, true
}

func calendarToFileTime(wall time.Time) (int64, bool) {
	if wall.Year() < minFileTimeYear || wall.Year() > maxFileTimeYear {
		return 0, false
	}
	return wall.Unix()*fileTimeTicksPerSecond + fileTimeUnixOffset, true
}

func localFileTimeToUTC(ft int64, localOffset time.Duration) (int64, bool) {
	utc := ft - localOffset.Nanoseconds()/100
	if utc < 0 {
		return 0, false
	}
	return utc, true
}

func fileTimeToUnix(ft int64) int64 {
	return (ft - fileTimeUnixOffset) / fileTimeTicksPerSecond
}
