package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeDOB(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date only", "1990-05-02", "1990-05-02"},
		{"utc timestamp", "1990-05-02T00:00:00.000Z", "1990-05-02"},
		{"utc timestamp late in day", "2001-01-15T23:59:59Z", "2001-01-15"},
		{"positive offset crosses midnight", "2001-01-15T02:00:00+05:30", "2001-01-14"},
		{"negative offset crosses midnight", "2001-01-15T22:00:00-05:00", "2001-01-16"},
		{"no offset read as utc", "2001-01-15T10:30:00", "2001-01-15"},
		{"space separated", "2001-01-15 10:30:00", "2001-01-15"},
		{"surrounding whitespace", "  2001-01-15 ", "2001-01-15"},
		{"single digit month and day padded", "2001-01-05T00:00:00Z", "2001-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDOB(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDOB_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2001-13-45"} {
		_, err := NormalizeDOB(in)
		assert.ErrorIs(t, err, ErrInvalidDOB, "input %q", in)
	}
}

// TestNormalizeDOB_IndependentOfLocalZone checks the result does not move with time.Local.
func TestNormalizeDOB_IndependentOfLocalZone(t *testing.T) {
	orig := time.Local
	t.Cleanup(func() { time.Local = orig })

	for _, zone := range []string{"UTC", "Asia/Kolkata", "America/Los_Angeles", "Pacific/Kiritimati"} {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Skipf("zone database unavailable: %v", err)
		}
		time.Local = loc

		got, err := NormalizeDOB("2001-01-15")
		require.NoError(t, err)
		assert.Equal(t, "2001-01-15", got, zone)
	}
}

// TestNormalizeDOB_DateAndTimestampAgree checks that a date and any UTC instant on
// that day normalize to the same value.
func TestNormalizeDOB_DateAndTimestampAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1900, 2100).Draw(t, "year")
		month := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 28).Draw(t, "day")
		sec := rapid.IntRange(0, 86399).Draw(t, "sec")

		day0 := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		instant := day0.Add(time.Duration(sec) * time.Second)
		want := day0.Format(DateLayout)

		for _, in := range []string{
			want,
			instant.Format(time.RFC3339),
			instant.Format(time.RFC3339Nano),
			instant.Format("2006-01-02T15:04:05.000Z"),
		} {
			got, err := NormalizeDOB(in)
			if err != nil {
				t.Fatalf("NormalizeDOB(%q): %v", in, err)
			}
			if got != want {
				t.Fatalf("NormalizeDOB(%q) = %q, want %q", in, got, want)
			}
		}
	})
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Date("2001-01-15"), d)

	require.NoError(t, d.Scan("1990-05-02"))
	assert.Equal(t, Date("1990-05-02"), d)

	require.NoError(t, d.Scan([]byte("1990-05-03T00:00:00Z")))
	assert.Equal(t, Date("1990-05-03"), d)

	assert.Error(t, d.Scan(42))

	v, err := Date("2001-01-15").Value()
	require.NoError(t, err)
	assert.Equal(t, "2001-01-15", v)
}

func TestInputMissing(t *testing.T) {
	full := Input{
		FirstName: Ptr("Ann"), LastName: Ptr("Lee"), Email: Ptr("ann@example.com"),
		DOB: Ptr("2001-01-15"), RollNumber: Ptr("R100"),
	}
	assert.Empty(t, full.Missing())

	partial := full
	partial.LastName = nil
	partial.RollNumber = Ptr("")
	assert.Equal(t, []string{"lastName", "rollNumber"}, partial.Missing())

	assert.Len(t, Input{}.Missing(), 5)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", raw)
	}
}
