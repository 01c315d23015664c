package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hatamisg/rutin/internal/calendar"
)

// WeekdaySet is the set of absolute weekday numbers (Sunday=1..Saturday=7) a
// habit is due on. The set is held explicitly in memory; the compact bitmask
// form exists only at the persistence boundary, via Bits/FromBits and the
// JSON marshalling built on them.
type WeekdaySet struct {
	days [8]bool // index 1..7; index 0 unused
}

// NewWeekdaySet builds a set from absolute weekday numbers.
// Out-of-range numbers are rejected.
func NewWeekdaySet(days ...int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, d := range days {
		if d < calendar.Sunday || d > calendar.Saturday {
			return WeekdaySet{}, fmt.Errorf("weekday %d out of range 1..7", d)
		}
		s.days[d] = true
	}
	return s, nil
}

// EveryDay returns the set containing all seven weekdays.
func EveryDay() WeekdaySet {
	var s WeekdaySet
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		s.days[d] = true
	}
	return s
}

// Contains reports whether the set includes the given weekday number.
func (s WeekdaySet) Contains(weekday int) bool {
	if weekday < calendar.Sunday || weekday > calendar.Saturday {
		return false
	}
	return s.days[weekday]
}

// IsEmpty reports whether no weekday is selected.
func (s WeekdaySet) IsEmpty() bool {
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		if s.days[d] {
			return false
		}
	}
	return true
}

// Count returns the number of selected weekdays.
func (s WeekdaySet) Count() int {
	n := 0
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		if s.days[d] {
			n++
		}
	}
	return n
}

// Days returns the selected weekday numbers in ascending absolute order.
func (s WeekdaySet) Days() []int {
	out := make([]int, 0, 7)
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		if s.days[d] {
			out = append(out, d)
		}
	}
	return out
}

// DaysOrderedFrom returns the selected weekday numbers ordered for display,
// starting the week at first (an absolute weekday number). Display order
// never changes set membership; it exists only for rendering.
func (s WeekdaySet) DaysOrderedFrom(first int) []int {
	if first < calendar.Sunday || first > calendar.Saturday {
		first = calendar.Sunday
	}
	out := make([]int, 0, 7)
	for i := 0; i < 7; i++ {
		d := (first-1+i)%7 + 1
		if s.days[d] {
			out = append(out, d)
		}
	}
	return out
}

// Bits encodes the set as a bitmask with bit 0 = Sunday .. bit 6 = Saturday.
// This is the single persistence encoding; FromBits is its inverse.
func (s WeekdaySet) Bits() uint8 {
	var b uint8
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		if s.days[d] {
			b |= 1 << (d - 1)
		}
	}
	return b
}

// WeekdaySetFromBits decodes a bitmask produced by Bits. Bits beyond the
// seven weekday bits are ignored.
func WeekdaySetFromBits(b uint8) WeekdaySet {
	var s WeekdaySet
	for d := calendar.Sunday; d <= calendar.Saturday; d++ {
		if b&(1<<(d-1)) != 0 {
			s.days[d] = true
		}
	}
	return s
}

// MarshalJSON encodes the set as its bitmask integer.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s.Bits()))), nil
}

// UnmarshalJSON decodes the bitmask integer form.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	b, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("weekday set: %w", err)
	}
	*s = WeekdaySetFromBits(uint8(b))
	return nil
}

var weekdayNames = map[int]string{
	calendar.Sunday:    "sun",
	calendar.Monday:    "mon",
	calendar.Tuesday:   "tue",
	calendar.Wednesday: "wed",
	calendar.Thursday:  "thu",
	calendar.Friday:    "fri",
	calendar.Saturday:  "sat",
}

// WeekdayName returns the short English name for an absolute weekday number.
func WeekdayName(weekday int) string {
	if name, ok := weekdayNames[weekday]; ok {
		return name
	}
	return "?"
}

// ParseWeekday resolves a day name ("sun", "sunday", "Mon", ...) to its
// absolute weekday number.
func ParseWeekday(name string) (int, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d, short := range weekdayNames {
		if n == short || strings.HasPrefix(n, short) && isFullDayName(n, short) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

func isFullDayName(n, short string) bool {
	full := map[string]string{
		"sun": "sunday", "mon": "monday", "tue": "tuesday", "wed": "wednesday",
		"thu": "thursday", "fri": "friday", "sat": "saturday",
	}[short]
	return n == full
}

// String renders the set as comma-joined short names in absolute order,
// or "every day" when all seven days are selected.
func (s WeekdaySet) String() string {
	if s.Count() == 7 {
		return "every day"
	}
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = WeekdayName(d)
	}
	return strings.Join(names, ",")
}
