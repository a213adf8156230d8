package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("9:05")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:05"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestAddMinutes(t *testing.T) {
	ts := MustTimeString("23:00")

	got, err := ts.AddMinutes(59)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:59"), got)

	_, err = ts.AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestOnDropsSeconds(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	date := time.Date(2025, 3, 10, 17, 45, 31, 999, loc)

	got := MustTimeString("14:30").On(date)

	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, loc), got)
}

func TestScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("14:00:00"))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestJSON(t *testing.T) {
	var payload struct {
		StartTime TimeString `json:"startTime"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"startTime":"7:30"}`), &payload))
	assert.Equal(t, TimeString("07:30"), payload.StartTime)

	assert.Error(t, json.Unmarshal([]byte(`{"startTime":"7h30"}`), &payload))
}
