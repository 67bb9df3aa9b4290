package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/backlot/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// parseID reads a positional record id.
func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return uint(id), nil
}

// parseIDList reads a comma-separated list of ids. An empty string is an
// empty, non-nil list.
func parseIDList(s string) ([]uint, error) {
	ids := []uint{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDate reads a YYYY-MM-DD date; empty input yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// enumValue normalizes user-supplied enum text to the stored form.
func enumValue(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func tagNames(tags []models.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
