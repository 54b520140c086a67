package schedule

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2025-06-13"},
		{name: "leap day", input: "2024-02-29"},
		{name: "not a date", input: "not-a-date", wantErr: true},
		{name: "wrong separator", input: "2025/06/13", wantErr: true},
		{name: "month out of range", input: "2025-13-01", wantErr: true},
		{name: "day out of range", input: "2025-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "09:00", want: "09:00"},
		{input: "9:00", want: "09:00"},
		{input: "20:00", want: "20:00"},
		{input: "09:30", want: "09:30"},
		{input: "25:00", wantErr: true},
		{input: "9am", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeSlot(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	start, err := ParseDateTime("2025-06-13", "09:00")
	require.NoError(t, err)
	end, err := ParseDateTime("2025-06-13", "11:00")
	require.NoError(t, err)
	assert.True(t, start.Before(end))
	assert.Equal(t, "09:00", FormatSlot(start))
	assert.Equal(t, "2025-06-13", FormatDate(start))

	_, err = ParseDateTime("2025-06-13", "noon")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(KindSlotConflict, "The time slot %s is booked", "09:00")

	assert.Equal(t, "The time slot 09:00 is booked", err.Error())
	assert.True(t, errors.Is(err, ErrSlotConflict))
	assert.False(t, errors.Is(err, ErrUnknownDate))
	assert.Equal(t, KindSlotConflict, KindOf(err))

	wrapped := fmt.Errorf("booking failed: %w", err)
	assert.True(t, errors.Is(wrapped, ErrSlotConflict))
	assert.Equal(t, KindSlotConflict, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "MissingName", (&Error{Kind: KindMissingName}).Error())
}
