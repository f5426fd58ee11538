package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[
  {"name": "li_at", "value": "abc", "domain": ".linkedin.com", "path": "/", "expires": 1790000000, "httpOnly": true, "secure": true, "sameSite": "None"},
  {"name": "lang", "value": "en", "domain": ".linkedin.com", "path": "/", "sameSite": "Lax"}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "li_at", first.Name)
	assert.Equal(t, ".linkedin.com", *first.Domain)
	require.NotNil(t, first.Expires)
	assert.Equal(t, 1790000000.0, *first.Expires)
	require.NotNil(t, first.HttpOnly)
	assert.True(t, *first.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeNone, first.SameSite)

	second := cookies[1]
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, second.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadCookies(bad)
	assert.Error(t, err)
}
