package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"animediary/internal/api/dto"
	"animediary/internal/api/models"
	"animediary/internal/api/service"
)

type AnimeHandler struct {
	svc service.AnimeService
}

func NewAnimeHandler(svc service.AnimeService) *AnimeHandler {
	return &AnimeHandler{svc: svc}
}

func (h *AnimeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("", h.List)
	rg.GET("/:anime_id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:anime_id", h.Update)
	rg.DELETE("/:anime_id", h.Delete)
}

// Search queries the Jikan catalog and returns the upserted local records.
func (h *AnimeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	animes, err := h.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animes": animes})
}

func (h *AnimeHandler) List(c *gin.Context) {
	animes, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animes": animes})
}

func (h *AnimeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anime_id"})
		return
	}

	anime, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anime": anime})
}

func (h *AnimeHandler) Create(c *gin.Context) {
	var req dto.CreateAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	anime := &models.Anime{
		MalID:    req.MalID,
		Title:    req.Title,
		Synopsis: req.Synopsis,
		Score:    req.Score,
		Episodes: req.Episodes,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	}
	if err := h.svc.Create(c.Request.Context(), anime); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"anime": anime})
}

func (h *AnimeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anime_id"})
		return
	}

	var req dto.UpdateAnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	anime, err := h.svc.Update(c.Request.Context(), id, service.AnimeUpdate{
		Title:    req.Title,
		Synopsis: req.Synopsis,
		Score:    req.Score,
		Episodes: req.Episodes,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anime": anime})
}

func (h *AnimeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("anime_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anime_id"})
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		// Referenced by diary entries comes back as a conflict here.
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "anime not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "anime deleted"})
}
