package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/logger"
	"network-subsite-menu/pkg/navigation"
)

const networkMenuAdminTemplate = "network_menu_admin.html"

type NetworkMenuSettingsHandler struct {
	menus    service.NetworkMenuUseCase
	settings service.MenuSettingsUseCase
}

func NewNetworkMenuSettingsHandler(menus service.NetworkMenuUseCase, settings service.MenuSettingsUseCase) *NetworkMenuSettingsHandler {
	return &NetworkMenuSettingsHandler{menus: menus, settings: settings}
}

func (h *NetworkMenuSettingsHandler) Get(c *gin.Context) {
	if h.menus == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	editor, err := h.menus.EditorView(c.Request.Context())
	if err != nil {
		logger.Error(err, "Failed to load network menu settings", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load network menu settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": editor})
}

func (h *NetworkMenuSettingsHandler) Update(c *gin.Context) {
	if h.settings == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	var req models.UpdateNetworkMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.settings.Save(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidMenuSettings) {
			status = http.StatusBadRequest
		} else {
			logger.Error(err, "Failed to save network menu settings", nil)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": cfg})
}

// RenderForm shows the settings page.
func (h *NetworkMenuSettingsHandler) RenderForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", c.Query("saved") == "1")
}

// SubmitForm handles the settings page post. Field names follow the form:
// enabled_sites[] checkboxes, urls[<id>], labels[<id>], mobile_labels[<id>]
// and menu_order.
func (h *NetworkMenuSettingsHandler) SubmitForm(c *gin.Context) {
	if h.settings == nil {
		h.renderForm(c, http.StatusInternalServerError, "Service not configured", false)
		return
	}

	req, err := bindNetworkMenuForm(c)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, err.Error(), false)
		return
	}

	if _, err := h.settings.Save(c.Request.Context(), req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidMenuSettings) {
			status = http.StatusBadRequest
		} else {
			logger.Error(err, "Failed to save network menu settings", nil)
		}
		h.renderForm(c, status, err.Error(), false)
		return
	}

	c.Redirect(http.StatusSeeOther, c.Request.URL.Path+"?saved=1")
}

func (h *NetworkMenuSettingsHandler) renderForm(c *gin.Context, status int, message string, saved bool) {
	data := gin.H{
		"Title":   "Network Menu Settings",
		"Error":   message,
		"Saved":   saved,
		"Sites":   []models.NetworkMenuEditorSite{},
		"Order":   "",
		"OrderID": "menu_order",
	}

	if h.menus != nil {
		editor, err := h.menus.EditorView(c.Request.Context())
		if err != nil {
			logger.Error(err, "Failed to load network menu editor", nil)
			if status == http.StatusOK {
				status = http.StatusInternalServerError
			}
			data["Error"] = "Failed to load network menu settings"
		} else {
			data["Sites"] = editor.Sites
			data["Order"] = editor.MenuOrder
		}
	}

	c.HTML(status, networkMenuAdminTemplate, data)
}

func bindNetworkMenuForm(c *gin.Context) (models.UpdateNetworkMenuRequest, error) {
	req := models.UpdateNetworkMenuRequest{
		URLs:         map[navigation.SiteID]string{},
		Labels:       map[navigation.SiteID]string{},
		MobileLabels: map[navigation.SiteID]string{},
		MenuOrder:    c.PostForm("menu_order"),
	}

	for _, raw := range c.PostFormArray("enabled_sites[]") {
		id, ok := navigation.ParseSiteID(raw)
		if !ok {
			return req, errors.New("invalid site id in enabled sites")
		}
		req.EnabledSites = append(req.EnabledSites, id)
	}

	fields := map[string]map[navigation.SiteID]string{
		"urls":          req.URLs,
		"labels":        req.Labels,
		"mobile_labels": req.MobileLabels,
	}
	for name, target := range fields {
		for key, value := range c.PostFormMap(name) {
			id, ok := navigation.ParseSiteID(key)
			if !ok {
				return req, errors.New("invalid site id in " + name)
			}
			target[id] = value
		}
	}

	// Same limits as the JSON endpoint.
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return req, err
	}

	return req, nil
}
