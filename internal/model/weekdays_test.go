package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
)

func TestNewWeekdaySet(t *testing.T) {
	s, err := NewWeekdaySet(calendar.Monday, calendar.Wednesday, calendar.Friday)
	require.NoError(t, err)

	assert.True(t, s.Contains(calendar.Monday))
	assert.True(t, s.Contains(calendar.Wednesday))
	assert.True(t, s.Contains(calendar.Friday))
	assert.False(t, s.Contains(calendar.Sunday))
	assert.False(t, s.Contains(calendar.Saturday))
	assert.Equal(t, 3, s.Count())
}

func TestNewWeekdaySetRejectsOutOfRange(t *testing.T) {
	_, err := NewWeekdaySet(0)
	assert.Error(t, err)

	_, err = NewWeekdaySet(8)
	assert.Error(t, err)
}

func TestWeekdaySetContainsOutOfRange(t *testing.T) {
	s := EveryDay()
	assert.False(t, s.Contains(0))
	assert.False(t, s.Contains(8))
	assert.False(t, s.Contains(-1))
}

func TestEveryDay(t *testing.T) {
	s := EveryDay()
	assert.Equal(t, 7, s.Count())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "every day", s.String())
}

func TestWeekdaySetEmpty(t *testing.T) {
	var s WeekdaySet
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Days())
}

func TestWeekdaySetBitsRoundtrip(t *testing.T) {
	s, err := NewWeekdaySet(calendar.Sunday, calendar.Tuesday, calendar.Saturday)
	require.NoError(t, err)

	bits := s.Bits()
	// Sunday = bit 0, Tuesday = bit 2, Saturday = bit 6.
	assert.Equal(t, uint8(0b1000101), bits)

	decoded := WeekdaySetFromBits(bits)
	assert.Equal(t, s.Days(), decoded.Days())
}

func TestWeekdaySetBitsIgnoresHighBit(t *testing.T) {
	s := WeekdaySetFromBits(0b11111111)
	assert.Equal(t, 7, s.Count())
}

func TestWeekdaySetJSON(t *testing.T) {
	s, err := NewWeekdaySet(calendar.Monday, calendar.Friday)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	// Monday = bit 1, Friday = bit 5.
	assert.Equal(t, "34", string(data))

	var decoded WeekdaySet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.Days(), decoded.Days())
}

func TestWeekdaySetDaysOrderedFrom(t *testing.T) {
	s, err := NewWeekdaySet(calendar.Sunday, calendar.Monday, calendar.Saturday)
	require.NoError(t, err)

	// Absolute order always starts at Sunday.
	assert.Equal(t, []int{calendar.Sunday, calendar.Monday, calendar.Saturday}, s.Days())

	// Display order from Monday puts Sunday last; membership is unchanged.
	assert.Equal(t, []int{calendar.Monday, calendar.Saturday, calendar.Sunday}, s.DaysOrderedFrom(calendar.Monday))
	assert.Equal(t, s.Days(), WeekdaySetFromBits(s.Bits()).Days())
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]int{
		"sun":      calendar.Sunday,
		"Sunday":   calendar.Sunday,
		"mon":      calendar.Monday,
		"monday":   calendar.Monday,
		"WED":      calendar.Wednesday,
		"saturday": calendar.Saturday,
	} {
		got, err := ParseWeekday(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := ParseWeekday("blursday")
	assert.Error(t, err)
}

func TestWeekdaySetString(t *testing.T) {
	s, err := NewWeekdaySet(calendar.Monday, calendar.Wednesday, calendar.Friday)
	require.NoError(t, err)
	assert.Equal(t, "mon,wed,fri", s.String())
}
