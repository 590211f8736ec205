package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"issuetrack/api/internal/models"
	"issuetrack/api/internal/service"
)

type createIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

func (h HandlerSet) CreateIssue(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	issue, err := h.issues.Create(c.Request.Context(), ownerID, service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    models.Severity(req.Severity),
		Priority:    models.Priority(req.Priority),
		Status:      models.Status(req.Status),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Issue created", "issue": issue})
}

func (h HandlerSet) ListIssues(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.issues.List(c.Request.Context(), ownerID, service.ListQuery{
		Page:     page,
		Limit:    limit,
		Title:    c.Query("title"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":       result.Issues,
		"totalPages":   result.TotalPages,
		"statusCounts": result.StatusCounts,
	})
}

func (h HandlerSet) GetIssue(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	issue, err := h.issues.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

type updateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

func (h HandlerSet) UpdateIssue(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req updateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	issue, err := h.issues.Update(c.Request.Context(), ownerID, c.Param("id"), service.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    (*models.Severity)(req.Severity),
		Priority:    (*models.Priority)(req.Priority),
		Status:      (*models.Status)(req.Status),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h HandlerSet) DeleteIssue(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.issues.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
