package conquest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImportFile creates a small CSV to upload and returns its path.
func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportTypes(t *testing.T) {
	assert.Equal(t, []string{"Action", "Asset", "Defect", "Request", "AssetInspection", "RiskEvent", "LogBook"}, ImportTypes())
}

func TestNewImporter_Defaults(t *testing.T) {
	client := newTestClient(t, "https://api.example.gov.au")
	importer := NewImporter(client, ImportOptions{})

	assert.Equal(t, os.TempDir(), importer.outputDir)
	assert.Equal(t, 100*time.Millisecond, importer.pollInterval)
}

func TestImporter_Submit_Success(t *testing.T) {
	importFile := writeImportFile(t, "assets.csv", "AssetID,AssetDescription\n42,Swing\n")

	var stateCalls int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/import/add/Asset":
			file, header, err := r.FormFile("files")
			require.NoError(t, err)
			defer file.Close()

			content, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "assets.csv", header.Filename)
			assert.Contains(t, string(content), "AssetID,AssetDescription")

			json.NewEncoder(w).Encode("batch-77")
		case r.URL.Path == "/api/import/state/batch-77":
			// Stay in Processing for the first two polls
			if atomic.AddInt32(&stateCalls, 1) < 3 {
				json.NewEncoder(w).Encode(BatchState{Status: "Processing"})
			} else {
				json.NewEncoder(w).Encode(BatchState{Status: "Completed"})
			}
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{PollInterval: time.Millisecond})

	result, err := importer.Submit(context.Background(), importFile, "Asset")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "batch-77", result.BatchID)
	assert.Empty(t, result.ErrorMessage)
	assert.Empty(t, result.ErrorReportPath)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&stateCalls), int32(3))
}

func TestImporter_Submit_InvalidImportType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{})

	result, err := importer.Submit(context.Background(), "widgets.csv", "Widget")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.BatchID)
	assert.Equal(t, "Import type of Widget is not a valid option.", result.ErrorMessage)
	assert.Empty(t, result.ErrorReportPath)
}

func TestImporter_Submit_WritesErrorReport(t *testing.T) {
	importFile := writeImportFile(t, "assets.csv", "AssetID,AssetDescription\n42,Swing\n")
	outDir := t.TempDir()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/import/add/Asset":
			json.NewEncoder(w).Encode("batch-13")
		case r.URL.Path == "/api/import/state/batch-13":
			json.NewEncoder(w).Encode(BatchState{
				Status: "Failed",
				Error:  "2 rows rejected. Output to CSV for details.",
			})
		case r.URL.Path == "/api/import/error_csv/batch-13":
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte("AssetID,Error\r\n42,\"Invalid value, rejected\"\r\n"))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{OutputDir: outDir, PollInterval: time.Millisecond})

	result, err := importer.Submit(context.Background(), importFile, "Asset")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "batch-13", result.BatchID)
	assert.Equal(t, "2 rows rejected. Output to CSV for details.", result.ErrorMessage)
	assert.Equal(t, filepath.Join(outDir, "assets_ERROR.csv"), result.ErrorReportPath)

	content, err := os.ReadFile(result.ErrorReportPath)
	require.NoError(t, err)
	// The quoted comma must survive the round trip as a single field
	assert.Contains(t, string(content), `"Invalid value, rejected"`)
}

func TestImporter_Submit_FailureWithoutReport(t *testing.T) {
	importFile := writeImportFile(t, "actions.csv", "ActionID\n1\n")

	var csvRequested bool
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/import/add/Action":
			json.NewEncoder(w).Encode("batch-9")
		case r.URL.Path == "/api/import/state/batch-9":
			json.NewEncoder(w).Encode(BatchState{
				Status: "Failed",
				Error:  "The file header row is invalid.",
			})
		case r.URL.Path == "/api/import/error_csv/batch-9":
			csvRequested = true
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{PollInterval: time.Millisecond})

	result, err := importer.Submit(context.Background(), importFile, "Action")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "The file header row is invalid.", result.ErrorMessage)
	assert.Empty(t, result.ErrorReportPath)
	assert.False(t, csvRequested, "error CSV should only be fetched when the server offers it")
}

func TestImporter_Submit_CancelledWhileProcessing(t *testing.T) {
	importFile := writeImportFile(t, "assets.csv", "AssetID\n42\n")

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/import/add/Asset":
			json.NewEncoder(w).Encode("batch-5")
		case r.URL.Path == "/api/import/state/batch-5":
			json.NewEncoder(w).Encode(BatchState{Status: "Processing"})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := importer.Submit(ctx, importFile, "Asset")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestImporter_Submit_MissingFile(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{})

	result, err := importer.Submit(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "Asset")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open import file")
}

func TestImporter_State(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import/state/batch-3", r.URL.Path)
		json.NewEncoder(w).Encode(BatchState{Status: "Processing"})
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	importer := NewImporter(client, ImportOptions{})

	state, err := importer.State(context.Background(), "batch-3")
	require.NoError(t, err)
	assert.Equal(t, "Processing", state.Status)
}
