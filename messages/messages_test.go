package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		code     string
		expected string
	}{
		{code: "en", expected: "Welcome to the Calendar Bot!"},
		{code: "en-US", expected: "Welcome to the Calendar Bot!"},
		{code: "vi", expected: "Chào mừng bạn đến với Calendar Bot!"},
		{code: "de", expected: "Welcome to the Calendar Bot!"},
		{code: "", expected: "Welcome to the Calendar Bot!"},
		{code: "???", expected: "Welcome to the Calendar Bot!"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.For(tt.code).Welcome)
		})
	}
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	override := `
en:
  welcome: "Hi there!"
fr:
  welcome: "Bienvenue !"
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	en := c.For("en")
	assert.Equal(t, "Hi there!", en.Welcome)
	assert.Equal(t, "Processing...", en.Processing, "keys absent from the override keep their value")

	fr := c.For("fr")
	assert.Equal(t, "Bienvenue !", fr.Welcome)
	assert.Equal(t, "Processing...", fr.Processing, "new languages start from the fallback")

	assert.Equal(t, "Đang xử lý...", c.For("vi").Processing)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read messages")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("en: [unclosed"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "decode messages")
}

func TestLoginSucceeded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	texts := c.For("en")
	assert.Equal(t, "Login successful! You can now create calendar events with the bot.", texts.LoginSucceeded(""))
	assert.Equal(t, "Login successful as ada@example.com! You can now create calendar events with the bot.", texts.LoginSucceeded("ada@example.com"))
}
