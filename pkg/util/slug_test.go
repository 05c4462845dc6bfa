package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Simple name", "Fender Stratocaster", "fender-stratocaster"},
		{"Special characters", "Gibson Les Paul (Custom)", "gibson-les-paul-custom"},
		{"Leading and trailing spaces", "  Jazz Bass  ", "jazz-bass"},
		{"Repeated separators", "Tube -- Screamer", "tube-screamer"},
		{"Uppercase and digits", "Boss DS-1", "boss-ds-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugWithSuffix(t *testing.T) {
	a := SlugWithSuffix("fender-stratocaster")
	b := SlugWithSuffix("fender-stratocaster")

	assert.Contains(t, a, "fender-stratocaster-")
	assert.NotEqual(t, a, b)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 64.8, Round2(64.8000000001))
	assert.Equal(t, 16.79, Round2(16.789999))
	assert.Equal(t, 0.8, Round2(0.8))
	assert.Equal(t, 5.99, Round2(5.99))
}
