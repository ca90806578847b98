package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"animediary/internal/api/dto"
	"animediary/internal/api/service"
)

type DiaryHandler struct {
	svc service.DiaryService
}

func NewDiaryHandler(svc service.DiaryService) *DiaryHandler {
	return &DiaryHandler{svc: svc}
}

// RegisterRoutes assumes the group already runs behind AuthMiddleware.
func (h *DiaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:entry_id", h.Get)
	rg.POST("", h.Add)
	rg.PUT("/:entry_id", h.Update)
	rg.DELETE("/:entry_id", h.Remove)
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID.(string), true
}

func (h *DiaryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")

	entries, err := h.svc.List(c.Request.Context(), userID, status, sortBy, order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *DiaryHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_id"})
		return
	}

	entry, err := h.svc.GetEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (h *DiaryHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.Add(c.Request.Context(), userID, req.AnimeID, req.UserScore, req.Status, req.EpisodesWatched, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (h *DiaryHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_id"})
		return
	}

	var req dto.UpdateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), entryID, userID, service.DiaryUpdate{
		UserScore:       req.UserScore,
		Status:          req.Status,
		EpisodesWatched: req.EpisodesWatched,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (h *DiaryHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_id"})
		return
	}

	deleted, err := h.svc.Remove(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}

func (h *DiaryHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
