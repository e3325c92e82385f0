package service

import (
	"context"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ListingService answers the paginated catalog listing and search queries.
// It composes the pagination window, the typed filters and the favorite
// annotation over one gorm handle.
type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// ListParams carries every recognized listing parameter. Values arrive
// already bounds-checked by the HTTP layer; the service re-clamps page math
// defensively because it is also called from internal code paths.
type ListParams struct {
	Page             int
	PageSize         int
	Cat              string
	Developer        string
	Search           string
	Sort             string
	Direction        string
	IncludeRelations bool
	NeedTotal        bool
	ViewerID         string
}

// List returns one page of servers. When a search term is present the search
// path takes over and the user-selected sort is ignored. When NeedTotal is
// set, the count query runs concurrently with the data query.
func (s *ListingService) List(ctx context.Context, p ListParams) (PageResult[*model.Server], error) {
	req := NormalizePage(p.Page, p.PageSize, MaxPageSize)
	filter := ListFilter{Cat: p.Cat, Developer: p.Developer, Search: p.Search}

	if p.Search != "" {
		return s.search(ctx, req, filter, p)
	}

	base := func() *gorm.DB {
		return filter.Apply(s.db.WithContext(ctx).Model(&model.Server{}))
	}

	var servers []*model.Server
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tx := base().Order(OrderClause(p.Sort, p.Direction)).
			Offset(req.Offset()).
			Limit(req.FetchLimit())
		if p.IncludeRelations {
			tx = tx.Preload("User")
		}
		return tx.WithContext(gctx).Find(&servers).Error
	})
	if p.NeedTotal {
		g.Go(func() error {
			return base().WithContext(gctx).Count(&total).Error
		})
	}
	if err := g.Wait(); err != nil {
		return PageResult[*model.Server]{}, err
	}

	if err := AnnotateFavorites(s.db.WithContext(ctx), servers, p.ViewerID); err != nil {
		return PageResult[*model.Server]{}, err
	}

	var totalPtr *int64
	if p.NeedTotal {
		totalPtr = &total
	}
	return BuildPage(servers, req, totalPtr), nil
}

// search runs the free-text listing path. The primary query uses the fixed
// multi-key relevance order; if it fails, one retry with a simplified
// single-key order is attempted before the error propagates.
func (s *ListingService) search(ctx context.Context, req PageRequest, filter ListFilter, p ListParams) (PageResult[*model.Server], error) {
	term := filter.NormalizedSearch()
	if term == "" {
		return EmptyPage[*model.Server](req), nil
	}

	query := func(order string) ([]*model.Server, error) {
		var servers []*model.Server
		tx := applySearch(s.db.WithContext(ctx).Model(&model.Server{}), term).
			Order(order).
			Offset(req.Offset()).
			Limit(req.FetchLimit())
		if p.IncludeRelations {
			tx = tx.Preload("User")
		}
		err := tx.Find(&servers).Error
		return servers, err
	}

	servers, err := query(searchOrder)
	if err != nil {
		common.SysError("search query failed, retrying with simplified order: " + err.Error())
		servers, err = query(searchFallbackOrder)
		if err != nil {
			return PageResult[*model.Server]{}, err
		}
	}

	if err := AnnotateFavorites(s.db.WithContext(ctx), servers, p.ViewerID); err != nil {
		return PageResult[*model.Server]{}, err
	}
	return BuildPage(servers, req, nil), nil
}

// ListMinimal is the reduced-field fast variant: no relation loading, no
// favorite annotation, same pagination contract.
func (s *ListingService) ListMinimal(ctx context.Context, page, pageSize int, cat, sort, direction string) (PageResult[*model.ServerMinimal], error) {
	req := NormalizePage(page, pageSize, MaxPageSize)

	tx := s.db.WithContext(ctx).Model(&model.Server{})
	if cat != "" {
		tx = tx.Where("cat = ?", cat)
	}

	var servers []*model.ServerMinimal
	err := tx.
		Select("id", "name", "qualified_name", "description", "developer", "cat",
			"is_official", "rating", "github_stars", "views", "downloads").
		Order(OrderClause(sort, direction)).
		Offset(req.Offset()).
		Limit(req.FetchLimit()).
		Find(&servers).Error
	if err != nil {
		return PageResult[*model.ServerMinimal]{}, err
	}
	return BuildPage(servers, req, nil), nil
}
