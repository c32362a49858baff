package service

import (
	"context"
	"errors"
	"testing"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/pkg/navigation"
)

func TestMenuSettingsService_LoadEmpty(t *testing.T) {
	svc := NewMenuSettingsService(newMemorySettingRepository(), networkSites(), nil, 0)

	cfg, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Enabled() {
		t.Fatalf("expected empty configuration to be disabled")
	}
	if cfg.MenuOrder != "" {
		t.Fatalf("expected no menu order, got %q", cfg.MenuOrder)
	}
}

func TestMenuSettingsService_SaveAndLoad(t *testing.T) {
	repo := newMemorySettingRepository()
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)
	ctx := context.Background()

	saved, err := svc.Save(ctx, models.UpdateNetworkMenuRequest{
		EnabledSites: []navigation.SiteID{1, 2, 2, 3},
		URLs: map[navigation.SiteID]string{
			1: "https://network.test",
			3: " https://store.test ",
		},
		Labels: map[navigation.SiteID]string{
			1: "  Home  ",
			2: "Blog 2",
		},
		MobileLabels: map[navigation.SiteID]string{
			1: "Home",
			3: "<b>Store</b>",
		},
		MenuOrder: " 3, 1 ,2 ",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if len(saved.EnabledSites) != 3 {
		t.Fatalf("expected duplicates removed, got %v", saved.EnabledSites)
	}
	if _, ok := saved.URLs[1]; ok {
		t.Fatalf("expected url equal to the site url not to be stored")
	}
	if saved.URLs[3] != "https://store.test" {
		t.Fatalf("expected trimmed url override, got %q", saved.URLs[3])
	}
	if saved.Labels[1] != "Home" {
		t.Fatalf("expected trimmed label, got %q", saved.Labels[1])
	}
	if _, ok := saved.Labels[2]; ok {
		t.Fatalf("expected label equal to the site name not to be stored")
	}
	if _, ok := saved.MobileLabels[1]; ok {
		t.Fatalf("expected mobile label equal to the label not to be stored")
	}
	if saved.MobileLabels[3] != "Store" {
		t.Fatalf("expected sanitised mobile label, got %q", saved.MobileLabels[3])
	}
	if saved.MenuOrder != "3,1,2" {
		t.Fatalf("expected normalised order, got %q", saved.MenuOrder)
	}

	loaded, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.EnabledSites) != 3 || loaded.EnabledSites[0] != 1 {
		t.Fatalf("unexpected enabled sites %v", loaded.EnabledSites)
	}
	if loaded.MenuOrder != "3,1,2" {
		t.Fatalf("unexpected order %q", loaded.MenuOrder)
	}
	if loaded.Labels[1] != "Home" || loaded.URLs[3] != "https://store.test" {
		t.Fatalf("unexpected overrides %v %v", loaded.Labels, loaded.URLs)
	}
}

func TestMenuSettingsService_SaveBlankOrderDeletesKey(t *testing.T) {
	repo := newMemorySettingRepository()
	repo.store[settingKeyMenuOrder] = "2,1"
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

	if _, err := svc.Save(context.Background(), models.UpdateNetworkMenuRequest{EnabledSites: []navigation.SiteID{1, 2}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, ok := repo.store[settingKeyMenuOrder]; ok {
		t.Fatalf("expected menu order to be removed")
	}
}

func TestMenuSettingsService_SaveWritesSettingsAndOrderTogether(t *testing.T) {
	repo := newMemorySettingRepository()
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

	req := models.UpdateNetworkMenuRequest{EnabledSites: []navigation.SiteID{1, 2}, MenuOrder: "2,1"}
	if _, err := svc.Save(context.Background(), req); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if repo.writes != 1 {
		t.Fatalf("expected settings and order in a single write, got %d writes", repo.writes)
	}
	if repo.store[settingKeyMenuOrder] != "2,1" || repo.store[settingKeyMenuSiteSettings] == "" {
		t.Fatalf("unexpected store %v", repo.store)
	}
}

func TestMenuSettingsService_SaveFailureKeepsPreviousState(t *testing.T) {
	repo := newMemorySettingRepository()
	repo.store[settingKeyMenuSiteSettings] = `{"enabled_sites":[1,2]}`
	repo.store[settingKeyMenuOrder] = "2,1"
	repo.setErr = errors.New("connection reset")
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

	_, err := svc.Save(context.Background(), models.UpdateNetworkMenuRequest{EnabledSites: []navigation.SiteID{3}})
	if err == nil {
		t.Fatalf("expected store error to be returned")
	}
	if repo.store[settingKeyMenuSiteSettings] != `{"enabled_sites":[1,2]}` || repo.store[settingKeyMenuOrder] != "2,1" {
		t.Fatalf("expected previous settings and order to survive, got %v", repo.store)
	}

	loaded, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.EnabledSites) != 2 || loaded.MenuOrder != "2,1" {
		t.Fatalf("expected previous config after failed save, got %+v", loaded)
	}
}

func TestMenuSettingsService_SaveRejectsInvalidInput(t *testing.T) {
	cases := map[string]models.UpdateNetworkMenuRequest{
		"unknown site": {EnabledSites: []navigation.SiteID{1, 99}},
		"bad order":    {EnabledSites: []navigation.SiteID{1}, MenuOrder: "1,x"},
		"bad url":      {EnabledSites: []navigation.SiteID{1}, URLs: map[navigation.SiteID]string{2: "javascript:alert(1)"}},
	}

	for name, req := range cases {
		repo := newMemorySettingRepository()
		svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

		_, err := svc.Save(context.Background(), req)
		if !errors.Is(err, ErrInvalidMenuSettings) {
			t.Fatalf("%s: expected ErrInvalidMenuSettings, got %v", name, err)
		}
		if len(repo.store) != 0 {
			t.Fatalf("%s: expected nothing to be stored, got %v", name, repo.store)
		}
	}
}

func TestMenuSettingsService_LoadReportsStoreErrors(t *testing.T) {
	repo := newMemorySettingRepository()
	repo.getErr = errors.New("connection refused")
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected store error to be returned")
	}
}

func TestMenuSettingsService_LoadRejectsCorruptBlob(t *testing.T) {
	repo := newMemorySettingRepository()
	repo.store[settingKeyMenuSiteSettings] = "{not json"
	svc := NewMenuSettingsService(repo, networkSites(), nil, 0)

	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
