package casenum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cn, err := Parse("2024타경12345")
	require.NoError(t, err)

	assert.Equal(t, 2024, cn.Year)
	assert.Equal(t, int64(12345), cn.Serial)
	assert.Equal(t, "2024타경12345", cn.Raw)
}

func TestParse_Malformed(t *testing.T) {
	malformed := []string{
		"",
		"타경12345",
		"2024타경",
		"24타경12345",
		"2024가단12345",
		"2024타경12345호",
		" 2024타경12345",
	}

	for _, raw := range malformed {
		_, err := Parse(raw)
		assert.Error(t, err, "raw=%q", raw)
		assert.False(t, Valid(raw), "raw=%q", raw)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2023타경1"))
	assert.True(t, Valid("2024타경98765"))
}
