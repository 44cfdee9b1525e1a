package youtube

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseISODuration parses the ISO-8601 duration format the Data API uses
// (PT1H2M3S, P1DT2H). Date components other than days are rejected.
func ParseISODuration(raw string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", raw)
	}
	s = s[1:]

	datePart := s
	timePart := ""
	if idx := strings.Index(s, "T"); idx >= 0 {
		datePart, timePart = s[:idx], s[idx+1:]
	}

	var total time.Duration
	var err error
	if total, err = parseComponents(datePart, map[byte]time.Duration{
		'D': 24 * time.Hour,
	}); err != nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", raw)
	}
	timeTotal, err := parseComponents(timePart, map[byte]time.Duration{
		'H': time.Hour,
		'M': time.Minute,
		'S': time.Second,
	})
	if err != nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", raw)
	}
	return total + timeTotal, nil
}

func parseComponents(s string, units map[byte]time.Duration) (time.Duration, error) {
	var total time.Duration
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			continue
		}
		unit, ok := units[ch]
		if !ok || i == start {
			return 0, fmt.Errorf("unexpected component %q", string(ch))
		}
		n, err := strconv.Atoi(s[start:i])
		if err != nil {
			return 0, err
		}
		total += time.Duration(n) * unit
		start = i + 1
	}
	if start != len(s) {
		return 0, fmt.Errorf("trailing digits without unit")
	}
	return total, nil
}

// FormatMinutes renders a duration as whole minutes for user-facing
// limit messages.
func FormatMinutes(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	return strconv.Itoa(mins) + "m"
}
