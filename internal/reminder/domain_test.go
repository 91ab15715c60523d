package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDay_Validate(t *testing.T) {
	tests := []struct {
		name    string
		t       TimeOfDay
		wantErr bool
	}{
		{"midnight", TimeOfDay{0, 0, 0}, false},
		{"last second of day", TimeOfDay{23, 59, 59}, false},
		{"hour too large", TimeOfDay{24, 0, 0}, true},
		{"negative hour", TimeOfDay{-1, 0, 0}, true},
		{"minute too large", TimeOfDay{10, 60, 0}, true},
		{"second too large", TimeOfDay{10, 0, 60}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeOfDay_StringRoundTrip(t *testing.T) {
	tod, err := NewTimeOfDay(7, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, "07:05:09", tod.String())

	parsed, err := ParseTimeOfDay(tod.String())
	require.NoError(t, err)
	assert.Equal(t, tod, parsed)
}

func TestParseTimeOfDay_Malformed(t *testing.T) {
	_, err := ParseTimeOfDay("not-a-time")
	assert.Error(t, err)
}

func TestTimeOfDayFromTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 30, 45, 999, time.UTC)
	tod := TimeOfDayFromTime(ts)
	assert.Equal(t, TimeOfDay{14, 30, 45}, tod)
}

func TestTimeOfDay_OnDate(t *testing.T) {
	tod := TimeOfDay{Hour: 9, Minute: 0, Second: 0}
	date := time.Date(2026, 7, 30, 3, 17, 0, 0, time.UTC)

	got := tod.OnDate(date)
	want := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
}

func TestReminder_Validate(t *testing.T) {
	valid := Reminder{ID: 1, FireAt: TimeOfDay{9, 0, 0}, Text: "stand up", UserID: "u1"}
	assert.NoError(t, valid.Validate())

	zeroID := valid
	zeroID.ID = 0
	assert.Error(t, zeroID.Validate())

	badTime := valid
	badTime.FireAt = TimeOfDay{25, 0, 0}
	assert.Error(t, badTime.Validate())
}

func TestPending(t *testing.T) {
	s := Pending()
	assert.Equal(t, PhasePending, s.Phase)
	assert.Equal(t, 0, s.AttemptsLeft)
}
