package ntpq

import (
	"fmt"
	"strconv"
	"strings"

	"ntp-stats/internal/models"
)

// whenUnits maps ntpq's humanized suffixes to seconds
var whenUnits = map[byte]int64{
	'm': 60,
	'h': 3600,
	'd': 86400,
	'y': 86400 * 365,
}

// ParseInt decodes st and poll; "-" is absent
func ParseInt(s string) (models.Value, error) {
	if s == "-" {
		return models.Absent(), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return models.Absent(), fmt.Errorf("%w: integer %q", models.ErrFormat, s)
	}
	return models.Int(i), nil
}

// ParseWhen decodes the time since the last packet, normalizing
// m/h/d/y suffixes to seconds; "-" is absent
func ParseWhen(s string) (models.Value, error) {
	if s == "-" || s == "" {
		return ParseInt(s)
	}
	if unit, ok := whenUnits[s[len(s)-1]]; ok {
		i, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
		if err != nil {
			return models.Absent(), fmt.Errorf("%w: when %q", models.ErrFormat, s)
		}
		return models.Int(i * unit), nil
	}
	return ParseInt(s)
}

// ParseReach decodes the octal reach register
func ParseReach(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: reach %q", models.ErrFormat, s)
	}
	return i, nil
}

// ParseMillis converts an ntpq millisecond column to seconds
func ParseMillis(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: milliseconds %q", models.ErrFormat, s)
	}
	return f / 1000, nil
}

func isDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}
