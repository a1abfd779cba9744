package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStatic_ServesExistingFile(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "index.html", "<html>index</html>")
	writeAsset(t, dir, "assets/app.js", "console.log(1)")

	rec := httptest.NewRecorder()
	NewStaticHandler(dir).Serve(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestStatic_FallsBackToIndexForClientRoutes(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "index.html", "<html>index</html>")

	for _, path := range []string{"/", "/login", "/deep/client/route"} {
		rec := httptest.NewRecorder()
		NewStaticHandler(dir).Serve(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "<html>index</html>", rec.Body.String(), path)
	}
}

func TestStatic_DoesNotEscapeAssetRoot(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "index.html", "<html>index</html>")

	rec := httptest.NewRecorder()
	NewStaticHandler(dir).Serve(rec, httptest.NewRequest(http.MethodGet, "/../../etc/passwd", nil))

	assert.Equal(t, "<html>index</html>", rec.Body.String())
}
