package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/navigation"
)

// MenuHandler serves the rendered network menu to themes and frontends.
type MenuHandler struct {
	menus service.NetworkMenuUseCase
	sites service.SiteUseCase
}

func NewMenuHandler(menus service.NetworkMenuUseCase, sites service.SiteUseCase) *MenuHandler {
	return &MenuHandler{menus: menus, sites: sites}
}

// RenderHTML writes the menu for the requested location as an HTML fragment.
// When the network menu does not handle the location the response is empty
// with 204 and the caller keeps its own menu.
func (h *MenuHandler) RenderHTML(c *gin.Context) {
	result := h.render(c)
	if !result.Handled {
		c.Header("X-Network-Menu", "passthrough")
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.HTML))
}

// Get returns the resolved entries as JSON.
func (h *MenuHandler) Get(c *gin.Context) {
	result := h.render(c)
	c.JSON(http.StatusOK, result)
}

func (h *MenuHandler) render(c *gin.Context) service.RenderResult {
	req := service.RenderRequest{Location: c.Param("location")}
	if h.menus == nil {
		return service.RenderResult{Location: req.Location, Entries: []navigation.Entry{}}
	}
	if h.sites != nil {
		req.CurrentSiteID = h.sites.ResolveCurrent(c.Request.Context(), c.Request.Host, c.Query("path"), c.Query("site"))
	}
	return h.menus.Render(c.Request.Context(), req)
}
