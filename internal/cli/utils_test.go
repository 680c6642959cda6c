package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(not set)", maskSecret(""))
	assert.Equal(t, "******", maskSecret("secret"))
	assert.Equal(t, "********", maskSecret("hunter12"))
	assert.Equal(t, "corr****orse", maskSecret("correcthorse"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short note", truncate("short note", 20))
	assert.Equal(t, "line one line two", truncate("line one\nline two", 20))
	assert.Equal(t, "grill at the...", truncate("grill at the weekend", 15))

	// multibyte text must not be split mid rune
	assert.Equal(t, "müsli für...", truncate("müsli für das frühstück", 12))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))
	assert.NotEqual(t, "-", formatTime(time.Date(2010, 4, 9, 23, 4, 6, 0, time.UTC)))
}
