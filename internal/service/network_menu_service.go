package service

import (
	"context"
	"errors"
	"html/template"

	"network-subsite-menu/internal/metrics"
	"network-subsite-menu/internal/models"
	"network-subsite-menu/pkg/logger"
	"network-subsite-menu/pkg/navigation"
)

// MenuHooks are the host extension points around a render. All fields are
// optional.
type MenuHooks struct {
	Navigation navigation.Hooks
	// Settings may adjust the loaded configuration before a render.
	Settings func(cfg models.NetworkMenuConfig, current navigation.SiteID) models.NetworkMenuConfig
	// Before and After return markup inserted verbatim around the entries.
	Before func() string
	After  func(current navigation.SiteID) string
	// FilterSites narrows the sites offered by the settings editor.
	FilterSites func(sites []navigation.Site) []navigation.Site
}

type RenderRequest struct {
	Location      string
	CurrentSiteID navigation.SiteID
	// Fallback is returned untouched when the menu does not handle the request.
	Fallback string
}

type RenderResult struct {
	Location string             `json:"location"`
	Handled  bool               `json:"handled"`
	Entries  []navigation.Entry `json:"entries"`
	HTML     template.HTML      `json:"-"`
}

type NetworkMenuService struct {
	settings *MenuSettingsService
	sites    *SiteService
	hooks    MenuHooks
}

func NewNetworkMenuService(settings *MenuSettingsService, sites *SiteService, hooks MenuHooks) *NetworkMenuService {
	if settings == nil {
		return nil
	}
	return &NetworkMenuService{settings: settings, sites: sites, hooks: hooks}
}

// Render produces the network menu for the given location. Locations other
// than navigation.Location, a missing configuration or a store failure all
// return the fallback unchanged.
func (s *NetworkMenuService) Render(ctx context.Context, req RenderRequest) RenderResult {
	passthrough := RenderResult{
		Location: req.Location,
		Entries:  []navigation.Entry{},
		HTML:     template.HTML(req.Fallback),
	}

	if req.Location != navigation.Location {
		metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomePassthrough).Inc()
		return passthrough
	}
	if s == nil || s.settings == nil {
		metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
		return passthrough
	}

	log := logger.FromContext(ctx).WithField("current_site", uint(req.CurrentSiteID))

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load network menu settings")
		metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
		return passthrough
	}
	if s.hooks.Settings != nil {
		cfg = s.hooks.Settings(cfg, req.CurrentSiteID)
	}
	if !cfg.Enabled() {
		metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
		return passthrough
	}

	navCfg := cfg.Navigation()
	lookup := func(id navigation.SiteID) (navigation.Site, bool) {
		return s.sites.Lookup(ctx, id)
	}
	entries := navigation.Resolve(navCfg, req.CurrentSiteID, lookup, s.hooks.Navigation)

	if skipped := len(navCfg.DisplayOrder()) - len(entries); skipped > 0 {
		metrics.MenuEntriesSkipped.Add(float64(skipped))
		log.WithField("skipped", skipped).Debug("Skipped unresolvable menu sites")
	}

	before, after := "", ""
	if s.hooks.Before != nil {
		before = s.hooks.Before()
	}
	if s.hooks.After != nil {
		after = s.hooks.After(req.CurrentSiteID)
	}

	html, err := navigation.RenderHTML(entries, before, after)
	if err != nil {
		log.WithError(err).Error("Failed to render network menu")
		metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomeDisabled).Inc()
		return passthrough
	}

	metrics.MenuRendersTotal.WithLabelValues(metrics.OutcomeRendered).Inc()
	return RenderResult{
		Location: req.Location,
		Handled:  true,
		Entries:  entries,
		HTML:     html,
	}
}

// EditorView lists every directory site with the values the settings form
// should show.
func (s *NetworkMenuService) EditorView(ctx context.Context) (models.NetworkMenuEditor, error) {
	editor := models.NetworkMenuEditor{Sites: []models.NetworkMenuEditorSite{}}
	if s == nil || s.settings == nil || s.sites == nil {
		return editor, errors.New("network menu service not configured")
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return editor, err
	}

	directory, err := s.sites.Directory(ctx)
	if err != nil {
		return editor, err
	}
	if s.hooks.FilterSites != nil {
		directory = s.hooks.FilterSites(directory)
	}

	enabled := make(map[navigation.SiteID]bool, len(cfg.EnabledSites))
	for _, id := range cfg.EnabledSites {
		enabled[id] = true
	}

	for _, site := range directory {
		row := models.NetworkMenuEditorSite{
			ID:      site.ID,
			Name:    site.Name,
			SiteURL: site.URL,
			Enabled: enabled[site.ID],
			URL:     site.URL,
			Label:   site.Name,
		}
		if value, ok := cfg.URLs[site.ID]; ok && value != "" {
			row.URL = value
		}
		if value, ok := cfg.Labels[site.ID]; ok && value != "" {
			row.Label = value
		}
		row.MobileLabel = row.Label
		if value, ok := cfg.MobileLabels[site.ID]; ok && value != "" {
			row.MobileLabel = value
		}
		editor.Sites = append(editor.Sites, row)
	}

	editor.MenuOrder = cfg.MenuOrder
	return editor, nil
}
