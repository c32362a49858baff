package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/navigation"
)

type stubNetworkMenu struct {
	lastRequest service.RenderRequest
	result      service.RenderResult
	editor      models.NetworkMenuEditor
	editorErr   error
	renderCalls int
}

func (s *stubNetworkMenu) Render(ctx context.Context, req service.RenderRequest) service.RenderResult {
	s.renderCalls++
	s.lastRequest = req
	result := s.result
	result.Location = req.Location
	if req.Location != navigation.Location {
		return service.RenderResult{Location: req.Location, Entries: []navigation.Entry{}, HTML: template.HTML(req.Fallback)}
	}
	return result
}

func (s *stubNetworkMenu) EditorView(ctx context.Context) (models.NetworkMenuEditor, error) {
	if s.editorErr != nil {
		return models.NetworkMenuEditor{}, s.editorErr
	}
	return s.editor, nil
}

type stubMenuSettings struct {
	saved   []models.UpdateNetworkMenuRequest
	saveErr error
}

func (s *stubMenuSettings) Load(ctx context.Context) (models.NetworkMenuConfig, error) {
	return models.NetworkMenuConfig{}, errors.New("not implemented")
}

func (s *stubMenuSettings) Save(ctx context.Context, req models.UpdateNetworkMenuRequest) (models.NetworkMenuConfig, error) {
	s.saved = append(s.saved, req)
	if s.saveErr != nil {
		return models.NetworkMenuConfig{}, s.saveErr
	}
	return models.NetworkMenuConfig{
		NetworkMenuSettings: models.NetworkMenuSettings{
			EnabledSites: req.EnabledSites,
			URLs:         req.URLs,
			Labels:       req.Labels,
			MobileLabels: req.MobileLabels,
		},
		MenuOrder: req.MenuOrder,
	}, nil
}

type stubSites struct {
	sites      []models.Site
	listErr    error
	createErr  error
	deleteErr  error
	deleted    []uint
	current    navigation.SiteID
	lastHost   string
	lastPath   string
	lastSiteID string
}

func (s *stubSites) List(ctx context.Context) ([]models.Site, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.sites, nil
}

func (s *stubSites) Create(ctx context.Context, req models.CreateSiteRequest) (*models.Site, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	site := models.Site{Name: req.Name, URL: req.URL, Path: "/"}
	site.ID = uint(len(s.sites) + 1)
	s.sites = append(s.sites, site)
	return &site, nil
}

func (s *stubSites) Delete(ctx context.Context, id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, site := range s.sites {
		if site.ID == id {
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", service.ErrSiteNotFound, id)
}

func (s *stubSites) Lookup(ctx context.Context, id navigation.SiteID) (navigation.Site, bool) {
	for _, site := range s.sites {
		if navigation.SiteID(site.ID) == id {
			return site.Navigation(), true
		}
	}
	return navigation.Site{}, false
}

func (s *stubSites) ResolveCurrent(ctx context.Context, host, path, explicit string) navigation.SiteID {
	s.lastHost = host
	s.lastPath = path
	s.lastSiteID = explicit
	return s.current
}
