package stubapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// assetFixtures seeds the assets a fresh stub serves.
func assetFixtures() map[int]gin.H {
	return map[int]gin.H{
		1: {
			"AssetID":          1,
			"AssetNumber":      "BR-0001",
			"AssetDescription": "Main Street Bridge",
			"AssetTypeID":      12,
			"Status":           "Active",
		},
		2: {
			"AssetID":          2,
			"AssetNumber":      "PG-0002",
			"AssetDescription": "Riverside Playground",
			"AssetTypeID":      34,
			"Status":           "Active",
		},
		3: {
			"AssetID":          3,
			"AssetNumber":      "FP-0003",
			"AssetDescription": "Footpath Segment 3",
			"AssetTypeID":      51,
			"Status":           "Proposed",
		},
	}
}

// actionFixtures seeds the actions a fresh stub serves. Action 1003 is a
// child of 1002, so deleting 1002 first is rejected.
func actionFixtures() map[int]gin.H {
	return map[int]gin.H{
		1001: {
			"ActionID":          1001,
			"AssetID":           1,
			"ActionDescription": "Replace guard rail",
			"ExternalRef":       "WO-7731",
			"Status":            "Open",
		},
		1002: {
			"ActionID":          1002,
			"AssetID":           2,
			"ActionDescription": "Playground audit programme",
			"Status":            "Open",
		},
		1003: {
			"ActionID":          1003,
			"AssetID":           2,
			"ParentActionID":    1002,
			"ActionDescription": "Inspect swing set",
			"Status":            "Open",
		},
	}
}

// basicAssetFields is the projection served by the basic asset endpoint.
var basicAssetFields = []string{"AssetID", "AssetNumber", "AssetDescription", "Status"}

// recordNotFound reports a missing record the way Conquest does, as a 200
// response whose body carries an ErrorType marker.
func recordNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"ErrorType": "ApplicationException",
		"Message":   message,
	})
}

func recordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid record id",
			"code":  "INVALID_ID",
		})
		return 0, false
	}
	return id, true
}

// handleAssetPath serves both the full and the basic asset endpoints. The
// routes share a handler because the basic segment occupies the id position
// and the router cannot hold both shapes.
// GET /api/Asset/:id
// GET /api/Asset/basic/:id
func (s *Server) handleAssetPath(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	path, basic := strings.CutPrefix(path, "basic/")

	id, err := strconv.Atoi(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid record id",
			"code":  "INVALID_ID",
		})
		return
	}

	s.mu.Lock()
	asset, ok := s.assets[id]
	s.mu.Unlock()

	if !ok {
		recordNotFound(c, fmt.Sprintf("Asset %d does not exist.", id))
		return
	}

	if basic {
		projected := gin.H{}
		for _, field := range basicAssetFields {
			if value, ok := asset[field]; ok {
				projected[field] = value
			}
		}
		asset = projected
	}
	c.JSON(http.StatusOK, asset)
}

// handleFindAsset returns the unique asset matching a field value
// POST /api/asset/find_by_field
func (s *Server) handleFindAsset(c *gin.Context) {
	s.findRecord(c, s.assets)
}

// handleGetAction returns a full action record
// GET /api/Action/:id
func (s *Server) handleGetAction(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	action, ok := s.actions[id]
	s.mu.Unlock()

	if !ok {
		recordNotFound(c, fmt.Sprintf("Action %d does not exist.", id))
		return
	}
	c.JSON(http.StatusOK, action)
}

// handleFindAction returns the unique action matching a field value
// POST /api/action/find_by_field
func (s *Server) handleFindAction(c *gin.Context) {
	s.findRecord(c, s.actions)
}

// handleDeleteAction removes an action. Failures are reported in the body
// of a 200 response, a successful delete responds with an empty body.
// DELETE /api/Action/:id
func (s *Server) handleDeleteAction(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actions[id]; !ok {
		recordNotFound(c, fmt.Sprintf("Action %d does not exist.", id))
		return
	}

	for _, action := range s.actions {
		if parent, ok := action["ParentActionID"].(int); ok && parent == id {
			c.JSON(http.StatusOK, gin.H{
				"ErrorType": "ApplicationException",
				"Message":   fmt.Sprintf("Action %d has child actions.", id),
			})
			return
		}
	}

	delete(s.actions, id)
	s.logger.Info("action deleted", "action_id", id)
	c.Status(http.StatusOK)
}

// findRecord implements the find_by_field form search over a fixture set.
func (s *Server) findRecord(c *gin.Context, records map[int]gin.H) {
	field := c.PostForm("Field")
	value := c.PostForm("Value")

	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []gin.H
	for _, record := range records {
		if fieldValue, ok := record[field]; ok && fmt.Sprint(fieldValue) == value {
			matches = append(matches, record)
		}
	}

	if len(matches) != 1 {
		recordNotFound(c, fmt.Sprintf("No unique match for %s = %s.", field, value))
		return
	}
	c.JSON(http.StatusOK, matches[0])
}
