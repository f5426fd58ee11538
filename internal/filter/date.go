package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxPostingAge is how old a posting may be before scrapers drop it.
const DefaultMaxPostingAge = 60 * 24 * time.Hour

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	yearOnlyRegex = regexp.MustCompile(`\b(20\d{2})\b`)
	relativeRegex = regexp.MustCompile(`(\d+)\s+(minute|hour|day|week|month|year)s?\s+ago`)
)

// IsRecentJob reports whether a posted-at string is within DefaultMaxPostingAge.
func IsRecentJob(dateStr string) bool {
	return IsRecentAt(dateStr, time.Now(), DefaultMaxPostingAge)
}

// IsRecentAt accepts ISO dates, dd/mm/yyyy, "N days ago" phrases and bare
// years. Anything unparseable counts as recent.
func IsRecentAt(dateStr string, now time.Time, maxAge time.Duration) bool {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" || dateStr == "N/A" || strings.EqualFold(dateStr, "recent") {
		return true
	}

	// 2026-01-27 or 2026-01-27T10:00:00Z
	if isoDateRegex.MatchString(dateStr) {
		if jobDate, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return within(now, jobDate, maxAge)
		}
	}

	// dd/mm/yyyy
	if strings.Contains(dateStr, "/") {
		parts := strings.Split(dateStr, "/")
		if len(parts) >= 3 {
			day, _ := strconv.Atoi(parts[0])
			month, _ := strconv.Atoi(parts[1])
			year, _ := strconv.Atoi(parts[2])
			jobDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return within(now, jobDate, maxAge)
		}
	}

	// "3 weeks ago"
	if m := relativeRegex.FindStringSubmatch(strings.ToLower(dateStr)); m != nil {
		n, _ := strconv.Atoi(m[1])
		return relativeAge(n, m[2]) <= maxAge
	}

	if m := yearOnlyRegex.FindStringSubmatch(dateStr); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year == now.Year() || year == now.Year()-1
	}

	return true
}

func relativeAge(n int, unit string) time.Duration {
	day := 24 * time.Hour
	switch unit {
	case "minute":
		return time.Duration(n) * time.Minute
	case "hour":
		return time.Duration(n) * time.Hour
	case "day":
		return time.Duration(n) * day
	case "week":
		return time.Duration(n) * 7 * day
	case "month":
		return time.Duration(n) * 30 * day
	default:
		return time.Duration(n) * 365 * day
	}
}

func within(now, jobDate time.Time, maxAge time.Duration) bool {
	diff := now.Sub(jobDate)
	if diff > maxAge {
		return false
	}
	// allow a little clock skew for future dates
	return diff >= -2*24*time.Hour
}
