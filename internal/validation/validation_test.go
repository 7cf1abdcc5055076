package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func capOf(n int) *int { return &n }

func TestValidatePaxBoundaries(t *testing.T) {
	// At exactly 80% of capacity the warning fires without an error.
	res := ValidatePax(capOf(100), 80)
	assert.Empty(t, res.Error)
	assert.NotEmpty(t, res.Warning)

	// Just under 80%: neither.
	res = ValidatePax(capOf(100), 79)
	assert.Empty(t, res.Error)
	assert.Empty(t, res.Warning)

	// Over capacity: error only.
	res = ValidatePax(capOf(100), 120)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Warning)

	// Unknown capacity: nothing to validate.
	res = ValidatePax(nil, 50)
	assert.Equal(t, CapacityResult{}, res)
}

func TestValidateCapacityNegative(t *testing.T) {
	res := ValidatePassengers(capOf(10), -1)
	assert.Contains(t, res.Error, "non-negative")
	assert.Empty(t, res.Warning)
}

func TestValidateCapacityCeilingThreshold(t *testing.T) {
	// capacity 99: ceil(0.8 * 99) = 80, so 79 is fine and 80 warns.
	res := ValidatePax(capOf(99), 79)
	assert.Empty(t, res.Warning)

	res = ValidatePax(capOf(99), 80)
	assert.NotEmpty(t, res.Warning)
}

func TestValidateCapacityAtExactCapacity(t *testing.T) {
	res := ValidatePassengers(capOf(12), 12)
	assert.Empty(t, res.Error)
	assert.NotEmpty(t, res.Warning)
}

func TestValidateTimeRange(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		wantError  bool
	}{
		{"one hour exactly", "10:00", "11:00", false},
		{"longer booking", "08:30", "17:00", false},
		{"under an hour", "10:00", "10:30", true},
		{"end equals start", "10:00", "10:00", true},
		{"end before start", "14:00", "09:00", true},
		{"missing start", "", "11:00", false},
		{"missing end", "10:00", "", false},
		{"garbage input", "later", "soon", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateTimeRange(tc.start, tc.end)
			if tc.wantError {
				assert.NotEmpty(t, res.Error)
			} else {
				assert.Empty(t, res.Error)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	min, ok := ParseClock("13:45")
	assert.True(t, ok)
	assert.Equal(t, 13*60+45, min)

	_, ok = ParseClock("25:00")
	assert.False(t, ok)
	_, ok = ParseClock("10:61")
	assert.False(t, ok)
	_, ok = ParseClock("")
	assert.False(t, ok)
}
