package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlab/internal/domain"
)

type memFile struct {
	mu      sync.Mutex
	text    string
	saveErr error
}

func (m *memFile) FetchRows(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *memFile) SaveRows(ctx context.Context, csv string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.text = csv
	return nil
}

func newTestServer(t *testing.T, file *memFile, assetDir string) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	srv := NewServer(ServerConfig{
		Rows:     file,
		Sink:     file,
		AssetDir: assetDir,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, &logs
}

func TestServer_GetRows(t *testing.T) {
	file := &memFile{text: "position,Element\n1,Lens\n"}
	ts, logs := newTestServer(t, file, "")

	resp, err := http.Get(ts.URL + RowsPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "position,Element\n1,Lens\n", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, logs.String(), "path=/data.csv")
	assert.Contains(t, logs.String(), "status=200")
}

func TestServer_Save(t *testing.T) {
	tests := []struct {
		name        string
		saveErr     error
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{"success", nil, http.StatusOK, true, "Data saved successfully"},
		{"write failure", errors.New("read-only file system"), http.StatusInternalServerError, false, "Error saving data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &memFile{text: "old", saveErr: tt.saveErr}
			ts, _ := newTestServer(t, file, "")

			resp, err := http.Post(ts.URL+SavePath, "text/plain", strings.NewReader("position,Element\n1,Mirror\n"))
			require.NoError(t, err)
			defer resp.Body.Close()

			var out SaveResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantSuccess, out.Success)
			assert.Equal(t, tt.wantMessage, out.Message)
		})
	}
}

func TestServer_MethodsAreRouted(t *testing.T) {
	ts, _ := newTestServer(t, &memFile{}, "")

	resp, err := http.Get(ts.URL + SavePath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_LibraryAndAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-lens1.svg"), []byte("<svg/>"), 0644))
	ts, _ := newTestServer(t, &memFile{}, dir)

	resp, err := http.Get(ts.URL + LibraryPath)
	require.NoError(t, err)
	var entries []domain.LibraryEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	resp.Body.Close()
	assert.Len(t, entries, len(domain.BuiltinAssets))

	resp, err = http.Get(ts.URL + domain.AssetBasePath + "b-lens1.svg")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<svg/>", string(body))
}

func TestClient_RoundTrip(t *testing.T) {
	file := &memFile{text: "position,Element\n1,Lens\n"}
	ts, _ := newTestServer(t, file, "")
	c := NewClient(ts.URL+"/", nil)
	ctx := context.Background()

	text, err := c.FetchRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, "position,Element\n1,Lens\n", text)

	require.NoError(t, c.SaveRows(ctx, "position,Element\n1,Grating\n"))
	assert.Equal(t, "position,Element\n1,Grating\n", file.text)

	files, err := c.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, files, len(domain.BuiltinAssets))
	assert.Len(t, domain.ManifestEntries(files), len(domain.BuiltinAssets))
}

func TestClient_SaveFailure(t *testing.T) {
	file := &memFile{saveErr: errors.New("disk full")}
	ts, _ := newTestServer(t, file, "")

	err := NewClient(ts.URL, nil).SaveRows(context.Background(), "x")
	assert.Error(t, err)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url, nil)
	_, err := c.FetchRows(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.SaveRows(context.Background(), "x"))
}
