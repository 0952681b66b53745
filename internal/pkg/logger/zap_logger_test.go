package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("AUDIT", "Verification completed", map[string]interface{}{"score": 65.0})
	l.Error("AUDIT", "Something broke", map[string]interface{}{"error": "boom"})
	l.Debug("AUDIT", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}

	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "Verification completed", entries[0]["message"])
	assert.Equal(t, "AUDIT", entries[0]["module"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error_ref"])
	assert.Equal(t, path, l.FilePath())
}

func TestNop_AcceptsNilDetails(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.Info("X", "message", nil)
		l.Warn("X", "message", nil)
		l.Error("X", "message", nil)
	})
}
