package service

import (
	"context"

	"network-subsite-menu/internal/models"
	"network-subsite-menu/pkg/navigation"
)

type SiteUseCase interface {
	List(ctx context.Context) ([]models.Site, error)
	Create(ctx context.Context, req models.CreateSiteRequest) (*models.Site, error)
	Delete(ctx context.Context, id uint) error
	Lookup(ctx context.Context, id navigation.SiteID) (navigation.Site, bool)
	ResolveCurrent(ctx context.Context, host, path, explicit string) navigation.SiteID
}

type MenuSettingsUseCase interface {
	Load(ctx context.Context) (models.NetworkMenuConfig, error)
	Save(ctx context.Context, req models.UpdateNetworkMenuRequest) (models.NetworkMenuConfig, error)
}

type NetworkMenuUseCase interface {
	Render(ctx context.Context, req RenderRequest) RenderResult
	EditorView(ctx context.Context) (models.NetworkMenuEditor, error)
}

var (
	_ SiteUseCase         = (*SiteService)(nil)
	_ MenuSettingsUseCase = (*MenuSettingsService)(nil)
	_ NetworkMenuUseCase  = (*NetworkMenuService)(nil)
)
