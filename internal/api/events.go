package api

import (
	"net/http"

	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/database/models"

	"github.com/gin-gonic/gin"
)

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Category    string `json:"category"`
	Channel     string `json:"channel"`
	Done        bool   `json:"done"`
}

type eventPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Category    *string `json:"category"`
	Channel     *string `json:"channel"`
	Done        *bool   `json:"done"`
	Notified    *bool   `json:"notified"`
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.calendar.ListEvents(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) getEvent(c *gin.Context) {
	event, err := s.calendar.GetEvent(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
		return
	}

	event, err := s.calendar.CreateEvent(calendar.EventInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    req.Category,
		Channel:     req.Channel,
		Done:        req.Done,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) updateEvent(c *gin.Context) {
	var req eventPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
		return
	}

	event, err := s.calendar.UpdateEvent(c.Param("id"), calendar.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    req.Category,
		Channel:     req.Channel,
		Done:        req.Done,
		Notified:    req.Notified,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) deleteEvent(c *gin.Context) {
	if err := s.calendar.DeleteEvent(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "event deleted"})
}
