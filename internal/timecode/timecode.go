// Package timecode parses and formats WEBVTT-style timestamps.
//
// All caption timing in this project uses the HH:MM:SS.mmm form. Timestamps
// are kept as strings throughout the caption pipeline so that output files
// reproduce the source bytes exactly; this package provides the parsing needed
// whenever a numeric comparison is required.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern matches a single HH:MM:SS.mmm timestamp.
const Pattern = `\d{2}:\d{2}:\d{2}\.\d{3}`

// Parse converts an HH:MM:SS.mmm timestamp to seconds.
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	timeParts := strings.Split(value, ".")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Format converts seconds to an HH:MM:SS.mmm timestamp.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	millis := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	secs := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// Before reports whether timestamp a sorts strictly before b. Both values must
// be well-formed; malformed input compares lexically, which matches numeric
// order for the fixed-width HH:MM:SS.mmm form anyway.
func Before(a, b string) bool {
	return a < b
}
