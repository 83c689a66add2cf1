package api

import (
	"net/http"
	"strconv"

	"ScheduleAssistantBot/internal/database/models"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.calendar.ListCategories()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// createCategory is idempotent by name: posting an existing name returns the
// stored category with 200 instead of creating a duplicate.
func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
		return
	}

	category, created, err := s.calendar.CreateCategory(req.Name, req.Color)
	if err != nil {
		s.writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := s.calendar.DeleteCategory(uint(id)); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "category deleted"})
}
