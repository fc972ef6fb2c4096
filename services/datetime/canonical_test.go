package datetime

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCanonicalDate(t *testing.T) {
	c := New(time.UTC)

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Empty string", input: "", expected: ""},
		{name: "Already canonical", input: "2020-09-18", expected: "2020-09-18"},
		{name: "Canonical with whitespace", input: "  2020-09-18 ", expected: "2020-09-18"},
		{name: "Canonical shape is trusted", input: "2020-02-30", expected: "2020-02-30"},
		{name: "Abbreviated month", input: "Sep 18, 2020", expected: "2020-09-18"},
		{name: "Full month", input: "September 18, 2020", expected: "2020-09-18"},
		{name: "Slash month first", input: "09/18/2020", expected: "2020-09-18"},
		{name: "Ambiguous slash is month first", input: "01/02/2023", expected: "2023-01-02"},
		{name: "Year first slash", input: "2020/09/18", expected: "2020-09-18"},
		{name: "Not a date", input: "not a date", wantErr: true},
		{name: "Whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToCanonicalDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDateFormat))

				var dateErr *InvalidDateFormatError
				require.True(t, errors.As(err, &dateErr))
				assert.Equal(t, tt.input, dateErr.Input)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToCanonicalDateUsesInjectedLocation(t *testing.T) {
	honolulu := time.FixedZone("HST", -10*60*60)
	tokyo := time.FixedZone("JST", 9*60*60)

	// A zone-less date means the same calendar day everywhere
	for _, loc := range []*time.Location{time.UTC, honolulu, tokyo} {
		got, err := New(loc).ToCanonicalDate("Sep 18, 2020")
		assert.NoError(t, err)
		assert.Equal(t, "2020-09-18", got, loc.String())
	}

	// An explicit instant lands on the calendar day of the injected zone
	got, err := New(tokyo).ToCanonicalDate("2020-09-18T23:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "2020-09-19", got)

	got, err = New(honolulu).ToCanonicalDate("2020-09-18T05:00:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "2020-09-17", got)
}

func TestToCanonicalTime(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Empty string", input: "", expected: ""},
		{name: "Already canonical", input: "07:10:00", expected: "07:10:00"},
		{name: "Canonical shape is trusted", input: "99:99:99", expected: "99:99:99"},
		{name: "Morning meridiem", input: "7:10 AM", expected: "07:10:00"},
		{name: "Afternoon meridiem", input: "2:30 PM", expected: "14:30:00"},
		{name: "Lower case without space", input: "10:00pm", expected: "22:00:00"},
		{name: "Noon", input: "12:00 PM", expected: "12:00:00"},
		{name: "Midnight", input: "12:15 AM", expected: "00:15:00"},
		{name: "Hour only", input: "7 pm", expected: "19:00:00"},
		{name: "Single digit minute", input: "7:5 AM", expected: "07:05:00"},
		{name: "Surrounding whitespace", input: "  9:45 am  ", expected: "09:45:00"},
		{name: "Meridiem with seconds", input: "12:30:45 PM", expected: "12:30:00"},
		{name: "Meridiem with zero seconds", input: "9:00:00 am", expected: "09:00:00"},
		{name: "Bare 24 hour", input: "14:30", expected: "14:30:00"},
		{name: "Bare single digit hour", input: "9:05", expected: "09:05:00"},
		{name: "Bare midnight", input: "0:00", expected: "00:00:00"},
		{name: "Out of range bare clock", input: "25:99", wantErr: true},
		{name: "Bare hour out of range", input: "24:00", wantErr: true},
		{name: "Meridiem hour out of range", input: "13:00 PM", wantErr: true},
		{name: "Meridiem hour zero", input: "0:30 AM", wantErr: true},
		{name: "Meridiem minute out of range", input: "7:75 PM", wantErr: true},
		{name: "Meridiem without number", input: "pm", wantErr: true},
		{name: "Garbage", input: "noonish", wantErr: true},
		{name: "Single digit minute without meridiem", input: "14:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToCanonicalTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTimeFormat))

				var timeErr *InvalidTimeFormatError
				require.True(t, errors.As(err, &timeErr))
				assert.Equal(t, tt.input, timeErr.Input)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToDisplayDate(t *testing.T) {
	c := New(time.FixedZone("PDT", -7*60*60))

	assert.Equal(t, "Sep 18, 2020", c.ToDisplayDate("2020-09-18"))
	assert.Equal(t, "Jan 1, 2021", c.ToDisplayDate("2021-01-01"))
	assert.Equal(t, "", c.ToDisplayDate(""))
	assert.Equal(t, InvalidDisplayDate, c.ToDisplayDate("2020-02-30"))
	assert.Equal(t, InvalidDisplayDate, c.ToDisplayDate("yesterday"))
}

func TestToDisplayTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"07:10:00", "7:10 AM"},
		{"14:30:00", "2:30 PM"},
		{"00:05:00", "12:05 AM"},
		{"12:00:00", "12:00 PM"},
		{"23:59:59", "11:59 PM"},
		{"", ""},
		{"later", InvalidDisplayTime},
		{"ab:10:00", InvalidDisplayTime},
		{"25:00:00", InvalidDisplayTime},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToDisplayTime(tt.input))
		})
	}
}

func TestCanonicalFastPathIsIdempotent(t *testing.T) {
	c := New(time.UTC)

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		d := day.AddDate(0, 0, i).Format(CanonicalDateLayout)
		got, err := c.ToCanonicalDate(d)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			clock := fmt.Sprintf("%02d:%02d:%02d", h, m, m)
			got, err := c.ToCanonicalTime(clock)
			require.NoError(t, err)
			assert.Equal(t, clock, got)
		}
	}
}

func TestDisplayTimeRoundTrip(t *testing.T) {
	c := New(time.UTC)

	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 5, 10, 30, 45, 59} {
			canonical := fmt.Sprintf("%02d:%02d:00", h, m)
			display := c.ToDisplayTime(canonical)

			back, err := c.ToCanonicalTime(display)
			require.NoError(t, err, display)
			assert.Equal(t, canonical, back, display)
		}
	}
}

func TestDisplayDateRoundTrip(t *testing.T) {
	c := New(time.FixedZone("NST", -(3*60+30)*60))

	for _, canonical := range []string{"2020-09-18", "2024-02-29", "1999-12-31", "2030-01-01"} {
		back, err := c.ToCanonicalDate(c.ToDisplayDate(canonical))
		require.NoError(t, err)
		assert.Equal(t, canonical, back)
	}
}

func TestParseCanonical(t *testing.T) {
	c := New(time.UTC)

	day, err := c.ParseCanonicalDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	_, err = c.ParseCanonicalDate("2020-02-30")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
	_, err = c.ParseCanonicalDate("Sep 18, 2020")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	offset, err := c.ParseCanonicalTime("14:30:15")
	assert.NoError(t, err)
	assert.Equal(t, 14*time.Hour+30*time.Minute+15*time.Second, offset)

	_, err = c.ParseCanonicalTime("24:00:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
	_, err = c.ParseCanonicalTime("2:30 PM")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestCombine(t *testing.T) {
	loc := time.FixedZone("CET", 60*60)
	c := New(loc)

	start, err := c.Combine("2020-09-18", "14:30:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, 9, 18, 14, 30, 0, 0, loc), start)
	assert.Equal(t, loc, c.Location())

	_, err = c.Combine("2020-09-31", "14:30:00")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
	_, err = c.Combine("2020-09-18", "14:30")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestConcurrentUse(t *testing.T) {
	c := New(time.FixedZone("X", 3*60*60))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d, err := c.ToCanonicalDate("Sep 18, 2020")
				assert.NoError(t, err)
				assert.Equal(t, "2020-09-18", d)
				tm, err := c.ToCanonicalTime("2:30 PM")
				assert.NoError(t, err)
				assert.Equal(t, "14:30:00", tm)
			}
		}()
	}
	wg.Wait()
}

func TestErrorMessages(t *testing.T) {
	_, err := ToCanonicalDate("not a date")
	assert.EqualError(t, err, "invalid date format: not a date")

	_, err = ToCanonicalTime("25:99")
	assert.EqualError(t, err, "invalid time format: 25:99")
}
