package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinAliases(t *testing.T) {
	a := NewAliases()

	assert.Equal(t, "Ferencváros", a.Team("FTC"))
	assert.Equal(t, "Ferencváros", a.Team("ferencvarosi tc"))
	assert.Equal(t, "Manchester City", a.Team("Man City"))
	assert.Equal(t, "Unknown FC", a.Team("Unknown FC"))

	assert.Equal(t, "NB I", a.League("Labdarúgás, OTP Bank Liga"))
	assert.Equal(t, "Serie A", a.League("Foci - Serie A"))
	assert.Equal(t, "Premier League", a.League("Angol Premier League"))
	assert.Equal(t, "Copa Libertadores", a.League("Copa Libertadores:"))

	assert.True(t, a.IsKnownLeague("Európa-liga"))
	assert.False(t, a.IsKnownLeague("Szerencsejáték"))
}

func TestLoadAliasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	body := "teams:\n  Kisvárda:\n    - KMG\nleagues:\n  Szuperliga:\n    - Szerb 1.\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	a, err := LoadAliases(path)
	require.NoError(t, err)

	assert.Equal(t, "Kisvárda", a.Team("KMG"))
	assert.Equal(t, "Szuperliga", a.League("Szerb 1."))
	// built-ins survive
	assert.Equal(t, "Ferencváros", a.Team("Fradi"))
}

func TestLoadAliasesErrors(t *testing.T) {
	a, err := LoadAliases("")
	require.NoError(t, err)
	assert.Equal(t, "Debrecen", a.Team("DVSC"))

	_, err = LoadAliases(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("teams: [\n"), 0o644))
	_, err = LoadAliases(path)
	assert.Error(t, err)
}
