package conquest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPollInterval = 100 * time.Millisecond

	statusProcessing = "Processing"
	statusCompleted  = "Completed"

	// errorCSVMarker in a batch error message means the server holds an
	// error report for download.
	errorCSVMarker = "Output to CSV"
)

// importTypes are the import targets the API accepts.
var importTypes = []string{"Action", "Asset", "Defect", "Request", "AssetInspection", "RiskEvent", "LogBook"}

// ImportTypes returns the valid import types.
func ImportTypes() []string {
	return append([]string(nil), importTypes...)
}

func validImportType(importType string) bool {
	for _, t := range importTypes {
		if t == importType {
			return true
		}
	}
	return false
}

// ImportOptions adjusts import workflow behavior.
type ImportOptions struct {
	// OutputDir receives error report files. Defaults to the OS temp
	// directory.
	OutputDir string
	// PollInterval is the delay between batch state checks while the server
	// is processing. Defaults to 100ms.
	PollInterval time.Duration
}

// ImportResult describes the outcome of an import attempt.
type ImportResult struct {
	// BatchID is the server-assigned batch id. Empty when the import type
	// was rejected before upload.
	BatchID string
	Success bool
	// ErrorMessage carries the failure reason. Empty on success.
	ErrorMessage string
	// ErrorReportPath is the error CSV written for failures the server
	// offers to export. Empty otherwise.
	ErrorReportPath string
}

// BatchState is the server's report on an import batch.
type BatchState struct {
	Status string `json:"Status"`
	Error  string `json:"Error"`
}

// Importer runs file imports through the Conquest import API.
type Importer struct {
	client       *Client
	outputDir    string
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewImporter creates an Importer on top of an API client.
func NewImporter(client *Client, opts ImportOptions) *Importer {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Importer{
		client:       client,
		outputDir:    outputDir,
		pollInterval: pollInterval,
		logger:       client.logger.With("component", "importer"),
	}
}

// Submit uploads a file for import and waits for the batch to finish.
//
// Rejected import types and batches the server fails are reported through
// the returned ImportResult, not the error. The error covers transport and
// filesystem failures only, so a nil error does not mean the import
// succeeded; check ImportResult.Success.
func (imp *Importer) Submit(ctx context.Context, path, importType string) (*ImportResult, error) {
	if !validImportType(importType) {
		return &ImportResult{
			ErrorMessage: fmt.Sprintf("Import type of %s is not a valid option.", importType),
		}, nil
	}

	logger := imp.logger.With("run_id", uuid.New().String())
	logger.Info("starting import", "file", path, "type", importType)

	batchID, err := imp.upload(ctx, path, importType)
	if err != nil {
		return nil, err
	}
	logger.Debug("batch created", "batch_id", batchID)

	state, err := imp.wait(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if state.Status == statusCompleted {
		logger.Info("import completed", "batch_id", batchID)
		return &ImportResult{BatchID: batchID, Success: true}, nil
	}

	result := &ImportResult{BatchID: batchID, ErrorMessage: state.Error}
	if strings.Contains(state.Error, errorCSVMarker) {
		reportPath, err := imp.WriteErrorReport(ctx, batchID, path)
		if err != nil {
			return nil, err
		}
		result.ErrorReportPath = reportPath
	}
	logger.Warn("import failed", "batch_id", batchID, "error", state.Error)
	return result, nil
}

// State fetches the current state of an import batch.
func (imp *Importer) State(ctx context.Context, batchID string) (*BatchState, error) {
	var state BatchState
	if err := imp.client.doJSON(ctx, http.MethodGet, "/api/import/state/"+batchID, nil, "", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// upload posts the file as a multipart form and returns the batch id the
// server assigned.
func (imp *Importer) upload(ctx context.Context, path, importType string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read import file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	var batchID string
	err = imp.client.doJSON(ctx, http.MethodPost, "/api/import/add/"+importType,
		&buf, writer.FormDataContentType(), &batchID)
	if err != nil {
		return "", err
	}
	return batchID, nil
}

// wait polls the batch state until it leaves Processing. The poll interval
// is the only wait; cancelling the context interrupts it.
func (imp *Importer) wait(ctx context.Context, batchID string) (*BatchState, error) {
	for {
		state, err := imp.State(ctx, batchID)
		if err != nil {
			return nil, err
		}
		if state.Status != statusProcessing {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(imp.pollInterval):
		}
	}
}
