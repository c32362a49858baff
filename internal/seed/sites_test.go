package seed

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/pkg/navigation"
)

type stubSiteService struct {
	sites     []models.Site
	createErr error
	created   []models.CreateSiteRequest
}

func (s *stubSiteService) List(ctx context.Context) ([]models.Site, error) {
	return s.sites, nil
}

func (s *stubSiteService) Create(ctx context.Context, req models.CreateSiteRequest) (*models.Site, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, req)
	site := models.Site{Name: req.Name, URL: req.URL}
	site.ID = uint(len(s.sites) + 1)
	s.sites = append(s.sites, site)
	return &site, nil
}

func (s *stubSiteService) Delete(ctx context.Context, id uint) error {
	return errors.New("not implemented")
}

func (s *stubSiteService) Lookup(ctx context.Context, id navigation.SiteID) (navigation.Site, bool) {
	return navigation.Site{}, false
}

func (s *stubSiteService) ResolveCurrent(ctx context.Context, host, path, explicit string) navigation.SiteID {
	return 0
}

func TestEnsureDefaultSites(t *testing.T) {
	existing := models.Site{Name: "Main", URL: "https://network.test"}
	existing.ID = 1
	sites := &stubSiteService{sites: []models.Site{existing}}

	dataFS := fstest.MapFS{
		"02-shop.json":   {Data: []byte(`{"name": "Shop", "url": "https://shop.test"}`)},
		"03-broken.json": {Data: []byte(`{"name":`)},
		"README.md":      {Data: []byte("ignored")},
		"04-dup.json":    {Data: []byte(`{"name": "Blog copy", "url": "http://network.test/blog"}`)},
		"01-network.json": {Data: []byte(`[
			{"name": "Main again", "url": "HTTPS://Network.test/"},
			{"name": "Blog", "url": "https://network.test/blog/"}
		]`)},
	}

	EnsureDefaultSites(context.Background(), sites, dataFS)

	if len(sites.created) != 2 {
		t.Fatalf("expected 2 new sites, got %+v", sites.created)
	}
	if sites.created[0].Name != "Blog" || sites.created[1].Name != "Shop" {
		t.Fatalf("expected files to be processed in name order, got %+v", sites.created)
	}
}

func TestEnsureDefaultSitesWithoutDefinitions(t *testing.T) {
	sites := &stubSiteService{}

	EnsureDefaultSites(context.Background(), sites, fstest.MapFS{})
	EnsureDefaultSites(context.Background(), sites, nil)

	if len(sites.created) != 0 {
		t.Fatalf("expected nothing to be created, got %+v", sites.created)
	}
}

func TestSiteKey(t *testing.T) {
	cases := map[string]string{
		"https://Network.test/Blog/": "network.test/blog",
		"http://network.test:8080":   "network.test/",
		"/relative":                  "",
		"":                           "",
	}

	for input, want := range cases {
		if got := siteKey(input); got != want {
			t.Fatalf("siteKey(%q) = %q, want %q", input, got, want)
		}
	}
}
