package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotkeeper/internal/schedule"
)

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{
		"date":  "2025-06-13",
		"empty": "",
		"num":   42.0,
		"null":  nil,
	}

	got, err := StringArg(args, "date")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-13", got)

	got, err = StringArg(args, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = StringArg(args, "null")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = StringArg(args, "num")
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidFormat)
	assert.Equal(t, "Argument 'num' must be a string.", err.Error())

	got, err = StringArgDefault(args, "empty", "update")
	require.NoError(t, err)
	assert.Equal(t, "update", got)

	got, err = StringArgDefault(args, "date", "update")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-13", got)

	_, err = StringArgDefault(args, "num", "update")
	assert.ErrorIs(t, err, schedule.ErrInvalidFormat)
}

func TestStringMapArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    map[string]string
		wantErr string
	}{
		{
			name: "absent",
			args: map[string]interface{}{},
			want: map[string]string{},
		},
		{
			name: "json object",
			args: map[string]interface{}{"time_slots": map[string]interface{}{"09:00": "available", "10:00": "Lunch"}},
			want: map[string]string{"09:00": "available", "10:00": "Lunch"},
		},
		{
			name: "string map",
			args: map[string]interface{}{"time_slots": map[string]string{"09:00": "available"}},
			want: map[string]string{"09:00": "available"},
		},
		{
			name:    "non-string status",
			args:    map[string]interface{}{"time_slots": map[string]interface{}{"09:00": true}},
			wantErr: "Invalid status for time slot '09:00'. Statuses must be strings.",
		},
		{
			name:    "not an object",
			args:    map[string]interface{}{"time_slots": []interface{}{"09:00"}},
			wantErr: "Argument 'time_slots' must be an object mapping HH:MM to a status.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringMapArg(tt.args, "time_slots")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, schedule.ErrInvalidFormat)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
