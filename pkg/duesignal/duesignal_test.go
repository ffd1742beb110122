package duesignal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want Signal
	}{
		{name: "yesterday is overdue", raw: "2024-06-09", want: Red},
		{name: "long overdue", raw: "2023-12-31", want: Red},
		{name: "today", raw: "2024-06-10", want: Yellow},
		{name: "tomorrow", raw: "2024-06-11", want: Yellow},
		{name: "two days out", raw: "2024-06-12", want: Yellow},
		{name: "three days out", raw: "2024-06-13", want: Green},
		{name: "next year", raw: "2025-01-01", want: Green},
		{name: "empty", raw: "", want: Gray},
		{name: "whitespace", raw: "   ", want: Gray},
		{name: "garbage", raw: "not-a-date", want: Gray},
		{name: "impossible day", raw: "2024-02-31", want: Gray},
		{name: "date-time same day", raw: "2024-06-10T23:59:00Z", want: Yellow},
		{name: "date-time three days out", raw: "2024-06-13T00:00:00Z", want: Green},
		{name: "padded date", raw: " 2024-06-12 ", want: Yellow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw, now))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	days := []string{"2024-06-09", "2024-06-10", "2024-06-12", "2024-06-13"}

	morning := time.Date(2024, 6, 10, 0, 0, 1, 0, loc)
	evening := time.Date(2024, 6, 10, 23, 59, 59, 0, loc)

	for _, d := range days {
		assert.Equal(t, Classify(d, morning), Classify(d, evening), d)
	}
}

func TestClassifyConvertsOffsetIntoNowLocation(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, loc)

	// 2024-06-09T20:00Z is 2024-06-10 05:00 in JST, i.e. today
	assert.Equal(t, Yellow, Classify("2024-06-09T20:00:00Z", now))
	// 2024-06-09T10:00Z is still 2024-06-09 in JST
	assert.Equal(t, Red, Classify("2024-06-09T10:00:00Z", now))
}

func TestClassifyAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts on 2024-03-10, the day is 23 hours long
	now := time.Date(2024, 3, 8, 22, 0, 0, 0, loc)
	assert.Equal(t, Yellow, Classify("2024-03-10", now))
	assert.Equal(t, Green, Classify("2024-03-11", now))
}

func TestClassifyPtr(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Gray, ClassifyPtr(nil, now))

	due := "2024-06-09"
	assert.Equal(t, Red, ClassifyPtr(&due, now))
}

func TestClassifierUsesClock(t *testing.T) {
	fixed := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	c := NewClassifier(func() time.Time { return fixed })

	assert.Equal(t, Red, c.Classify("2024-06-09"))
	assert.Equal(t, Green, c.Classify("2024-06-13"))
	assert.Equal(t, Gray, c.ClassifyPtr(nil))

	assert.NotNil(t, NewClassifier(nil).now)
}

func TestSignalLabelAndValid(t *testing.T) {
	for _, s := range []Signal{Red, Yellow, Green, Gray} {
		assert.True(t, s.Valid())
		assert.NotEmpty(t, s.Label())
	}
	assert.False(t, Signal("blue").Valid())
	assert.Equal(t, Gray.Label(), Signal("blue").Label())
}

func TestSignalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Signal{"signal": Yellow})
	require.NoError(t, err)
	assert.JSONEq(t, `{"signal":"yellow"}`, string(out))

	var s Signal
	require.NoError(t, json.Unmarshal([]byte(`"RED"`), &s))
	assert.Equal(t, Red, s)

	assert.Error(t, json.Unmarshal([]byte(`"purple"`), &s))

	_, err = json.Marshal(Signal("purple"))
	assert.Error(t, err)
}
