package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/logger"
)

type SiteHandler struct {
	siteService service.SiteUseCase
}

func NewSiteHandler(siteService service.SiteUseCase) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func (h *SiteHandler) ensureService(c *gin.Context) bool {
	if h == nil || h.siteService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "site directory is not configured"})
		return false
	}
	return true
}

func (h *SiteHandler) List(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	sites, err := h.siteService.List(c.Request.Context())
	if err != nil {
		logger.Error(err, "Failed to list sites", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

func (h *SiteHandler) Create(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	var req models.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site, err := h.siteService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSite) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error(err, "Failed to create site", map[string]interface{}{"url": req.URL})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"site": site})
}

func (h *SiteHandler) Delete(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return
	}

	if err := h.siteService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrSiteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error(err, "Failed to delete site", map[string]interface{}{"site_id": id})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "site deleted"})
}
