package conquest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrorReport fetches and parses the error CSV for a failed batch. Quoted
// fields are handled, including commas and line breaks inside quotes.
func (imp *Importer) ErrorReport(ctx context.Context, batchID string) ([][]string, error) {
	status, body, err := imp.client.do(ctx, http.MethodGet, "/api/import/error_csv/"+batchID, nil, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse error report: %w", err)
	}
	return rows, nil
}

// WriteErrorReport fetches the error CSV for a batch and writes it to the
// output directory as "<name>_ERROR<ext>", derived from the imported file's
// name. It returns the path of the written report.
func (imp *Importer) WriteErrorReport(ctx context.Context, batchID, importPath string) (string, error) {
	rows, err := imp.ErrorReport(ctx, batchID)
	if err != nil {
		return "", err
	}

	base := filepath.Base(importPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	reportPath := filepath.Join(imp.outputDir, name+"_ERROR"+ext)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to encode error report: %w", err)
	}
	if err := os.WriteFile(reportPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write error report: %w", err)
	}

	imp.logger.Info("error report written", "batch_id", batchID, "path", reportPath)
	return reportPath, nil
}
