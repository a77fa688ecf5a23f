package stubapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gin-gonic/gin"
)

// batch tracks a simulated import run.
type batch struct {
	importType string
	status     string
	errorMsg   string
	// errorRows holds the rejected input rows with a trailing reason column,
	// served by the error_csv endpoint.
	errorRows [][]string
	polls     int
}

// rejectMarker in any field marks an input row as rejected. It lets clients
// drive both import outcomes from the file they upload.
const rejectMarker = "INVALID"

var importTypes = map[string]bool{
	"Action":          true,
	"Asset":           true,
	"Defect":          true,
	"Request":         true,
	"AssetInspection": true,
	"RiskEvent":       true,
	"LogBook":         true,
}

// handleImportAdd accepts an import file and creates a batch for it
// POST /api/import/add/:type
func (s *Server) handleImportAdd(c *gin.Context) {
	importType := c.Param("type")
	if !importTypes[importType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"ErrorType": "ApplicationException",
			"Message":   fmt.Sprintf("%s is not an importable record type.", importType),
		})
		return
	}

	file, err := c.FormFile("files")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"ErrorType": "ApplicationException",
			"Message":   "No import file was attached.",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"ErrorType": "ApplicationException",
			"Message":   "Unable to read the import file.",
		})
		return
	}
	defer src.Close()

	batchID := uuid.New().String()
	b := s.runImport(importType, src)

	s.mu.Lock()
	s.batches[batchID] = b
	s.mu.Unlock()

	s.logger.Info("batch created",
		"batch_id", batchID,
		"import_type", importType,
		"file", file.Filename,
		"status", b.status,
	)

	c.JSON(http.StatusOK, batchID)
}

// runImport decides a batch outcome from the uploaded file content. Rows
// with a field containing the reject marker fail the batch and feed the
// error report.
func (s *Server) runImport(importType string, src io.Reader) *batch {
	b := &batch{importType: importType}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		b.status = "Failed"
		b.errorMsg = "Unable to parse the import file."
		return b
	}

	for i, row := range rows {
		for _, field := range row {
			if strings.Contains(field, rejectMarker) {
				b.errorRows = append(b.errorRows, append(append([]string(nil), row...),
					fmt.Sprintf("Row %d contains an invalid value.", i+1)))
				break
			}
		}
	}

	if len(b.errorRows) > 0 {
		b.status = "Failed"
		b.errorMsg = fmt.Sprintf("%d row(s) rejected. Output to CSV for details.", len(b.errorRows))
	} else {
		b.status = "Completed"
	}
	return b
}

// handleImportState reports batch progress, answering Processing for the
// first few polls before settling on the final status
// GET /api/import/state/:batch
func (s *Server) handleImportState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[c.Param("batch")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Batch not found",
			"code":  "BATCH_NOT_FOUND",
		})
		return
	}

	b.polls++
	if b.polls <= s.config.ProcessingPolls {
		c.JSON(http.StatusOK, gin.H{"Status": "Processing", "Error": ""})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": b.status, "Error": b.errorMsg})
}

// handleImportErrorCSV serves the rejected rows of a failed batch as CSV
// GET /api/import/error_csv/:batch
func (s *Server) handleImportErrorCSV(c *gin.Context) {
	s.mu.Lock()
	b, ok := s.batches[c.Param("batch")]
	s.mu.Unlock()

	if !ok || len(b.errorRows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No error report for batch",
			"code":  "REPORT_NOT_FOUND",
		})
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(b.errorRows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  "INTERNAL_ERROR",
		})
		return
	}

	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
