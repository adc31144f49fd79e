package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

type fakeWarmer struct{ got []models.Outcome }

func (f *fakeWarmer) Warmup(o []models.Outcome) int {
	f.got = append(f.got, o...)
	return len(o)
}

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadHistory_Formats(t *testing.T) {
	for _, body := range []string{
		`[1, 0, 14, "x", 20]`,
		`{"history": [1, 0, 14]}`,
		`{"records": [{"roll": 1}, {"roll": 0}, {"roll": 14}, {"color": "red"}]}`,
	} {
		got, err := LoadHistory(write(t, body))
		require.NoError(t, err, body)
		assert.Equal(t, []models.Outcome{1, 0, 14}, got, body)
	}
}

func TestLoadHistory_Errors(t *testing.T) {
	_, err := LoadHistory(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = LoadHistory(write(t, `{"rolls": []}`))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestWarmup(t *testing.T) {
	w := &fakeWarmer{}
	n, err := Warmup(w, write(t, `[3, 3, 10]`))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []models.Outcome{3, 3, 10}, w.got)
}
