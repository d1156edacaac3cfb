package helpers

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a configured duration, falling back to def when the
// value is empty or malformed.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}

// AcademicYear returns the "YYYY-YYYY" academic year containing t.
// A year starts in September.
func AcademicYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.September {
		start--
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(start+1)
}
