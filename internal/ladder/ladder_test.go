package ladder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.json")
	content := `[
		{"rating": 1200, "problems": [{"name": "Way Too Long Words", "contest_id": 71, "index": "A"}]},
		{"rating": 1400, "problems": [{"name": "Boy or Girl", "contest_id": 236, "index": "A"}]},
		{"rating": 1200, "problems": [{"name": "Team", "contest_id": 231, "index": "A"}]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	l, err := Load(path)
	require.NoError(t, err)

	entries, err := l.CuratedProblems(context.Background(), 1200)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Name: "Way Too Long Words", ContestID: 71, Index: "A"}, entries[0])

	entries, err = l.CuratedProblems(context.Background(), 3000)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadEmptyPath(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)
	entries, err := l.CuratedProblems(context.Background(), 1200)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestCuratedProblemsReturnsCopy(t *testing.T) {
	l := FromEntries(map[int][]Entry{800: {{Name: "A"}}})
	entries, _ := l.CuratedProblems(context.Background(), 800)
	entries[0].Name = "changed"
	again, _ := l.CuratedProblems(context.Background(), 800)
	assert.Equal(t, "A", again[0].Name)
}
