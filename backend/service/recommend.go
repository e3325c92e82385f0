package service

import (
	"context"
	"errors"

	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/gorm"
)

const (
	DefaultRecommendLimit = 10
	MaxRecommendLimit     = 50
)

// Recommendation is a reason-annotated result set. TotalFound is the size of
// the returned set, not a catalog-wide total.
type Recommendation struct {
	Servers    []*model.Server `json:"servers"`
	Reason     string          `json:"reason"`
	TotalFound int             `json:"total_found"`
}

// RecommendationService produces fixed filter+order recipes over the server
// catalog. Each heuristic excludes servers the viewer already favorited when
// a viewer is known.
type RecommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

// ClampRecommendLimit bounds a requested result count to [1, 50], defaulting
// to 10.
func ClampRecommendLimit(limit int) int {
	if limit < 1 {
		return DefaultRecommendLimit
	}
	if limit > MaxRecommendLimit {
		return MaxRecommendLimit
	}
	return limit
}

func (r *RecommendationService) result(servers []*model.Server, viewerID, reason string) (Recommendation, error) {
	if err := AnnotateFavorites(r.db, servers, viewerID); err != nil {
		return Recommendation{}, err
	}
	return Recommendation{Servers: servers, Reason: reason, TotalFound: len(servers)}, nil
}

// Trending returns the most-favorited servers.
func (r *RecommendationService) Trending(ctx context.Context, viewerID string, limit int) (Recommendation, error) {
	limit = ClampRecommendLimit(limit)

	tx := r.db.WithContext(ctx).Model(&model.Server{}).
		Select("servers.*, COUNT(f.id) AS favorite_count").
		Joins("LEFT JOIN user_favorite_servers f ON f.server_id = servers.id").
		Group("servers.id").
		Order("favorite_count DESC")

	if viewerID != "" {
		favIDs, err := favoriteServerIDs(r.db.WithContext(ctx), viewerID)
		if err != nil {
			return Recommendation{}, err
		}
		if len(favIDs) > 0 {
			tx = tx.Where("servers.id NOT IN ?", favIDs)
		}
	}

	var servers []*model.Server
	if err := tx.Limit(limit).Find(&servers).Error; err != nil {
		return Recommendation{}, err
	}
	return r.result(servers, viewerID, "Most favorited servers recently")
}

// Official returns official servers ordered by rating then downloads.
func (r *RecommendationService) Official(ctx context.Context, limit int) (Recommendation, error) {
	limit = ClampRecommendLimit(limit)

	var servers []*model.Server
	err := r.db.WithContext(ctx).
		Where("is_official = ?", true).
		Order("rating DESC, downloads DESC").
		Limit(limit).
		Find(&servers).Error
	if err != nil {
		return Recommendation{}, err
	}
	return r.result(servers, "", "Official recommended servers")
}

// Similar returns servers by the same developer as the reference, or within
// ±0.5 of its rating, excluding the reference itself and the viewer's
// favorites. A missing reference yields an empty result, not an error.
func (r *RecommendationService) Similar(ctx context.Context, serverID, viewerID string, limit int) (Recommendation, error) {
	limit = ClampRecommendLimit(limit)

	var reference model.Server
	err := r.db.WithContext(ctx).Where("id = ?", serverID).First(&reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Recommendation{Servers: []*model.Server{}, Reason: "Reference server not found", TotalFound: 0}, nil
	}
	if err != nil {
		return Recommendation{}, err
	}

	tx := r.db.WithContext(ctx).Model(&model.Server{}).
		Where("(developer = ? OR (rating >= ? AND rating <= ?))",
			reference.Developer, reference.Rating-0.5, reference.Rating+0.5).
		Where("id <> ?", serverID)

	if viewerID != "" {
		favIDs, err := favoriteServerIDs(r.db.WithContext(ctx), viewerID)
		if err != nil {
			return Recommendation{}, err
		}
		if len(favIDs) > 0 {
			tx = tx.Where("id NOT IN ?", favIDs)
		}
	}

	var servers []*model.Server
	err = tx.Order("rating DESC, downloads DESC").Limit(limit).Find(&servers).Error
	if err != nil {
		return Recommendation{}, err
	}
	return r.result(servers, viewerID, "Similar to "+reference.Name)
}

// BasedOnFavorites recommends servers by the developers behind the viewer's
// favorites, or highly rated popular servers. A viewer with no favorites
// falls back to the official-popular recipe with an explanatory reason.
func (r *RecommendationService) BasedOnFavorites(ctx context.Context, viewerID string, limit int) (Recommendation, error) {
	limit = ClampRecommendLimit(limit)

	favorites, err := model.GetFavoriteServers(viewerID)
	if err != nil {
		return Recommendation{}, err
	}

	if len(favorites) == 0 {
		var popular []*model.Server
		err := r.db.WithContext(ctx).
			Where("is_official = ?", true).
			Order("rating DESC, downloads DESC").
			Limit(limit).
			Find(&popular).Error
		if err != nil {
			return Recommendation{}, err
		}
		return r.result(popular, viewerID, "Popular servers (you have no favorites yet)")
	}

	developerSet := make(map[string]bool)
	favoriteIDs := make([]string, 0, len(favorites))
	for _, s := range favorites {
		favoriteIDs = append(favoriteIDs, s.ID)
		if s.Developer != "" {
			developerSet[s.Developer] = true
		}
	}
	developers := make([]string, 0, len(developerSet))
	for d := range developerSet {
		developers = append(developers, d)
	}

	tx := r.db.WithContext(ctx).Model(&model.Server{}).
		Where("id NOT IN ?", favoriteIDs)
	if len(developers) > 0 {
		tx = tx.Where("((rating >= ? AND downloads >= ?) OR developer IN ?)", 4.0, 100, developers)
	} else {
		tx = tx.Where("rating >= ? AND downloads >= ?", 4.0, 100)
	}

	var servers []*model.Server
	err = tx.Order("rating DESC, downloads DESC").Limit(limit).Find(&servers).Error
	if err != nil {
		return Recommendation{}, err
	}

	reason := "Based on your favorite servers and developers"
	if len(developers) == 0 {
		reason = "Highly rated servers similar to your interests"
	}
	return r.result(servers, viewerID, reason)
}

// ByNames returns the hand-picked recommendation set matched by name
// substring, most-starred first.
func (r *RecommendationService) ByNames(ctx context.Context, names []string, viewerID string) ([]*model.Server, error) {
	if len(names) == 0 {
		return []*model.Server{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&model.Server{}).Preload("User")
	clause := r.db.Where("LOWER(name) LIKE ?", "%"+names[0]+"%")
	for _, name := range names[1:] {
		clause = clause.Or("LOWER(name) LIKE ?", "%"+name+"%")
	}

	var servers []*model.Server
	err := tx.Where(clause).Order("github_stars DESC").Find(&servers).Error
	if err != nil {
		return nil, err
	}
	if err := AnnotateFavorites(r.db.WithContext(ctx), servers, viewerID); err != nil {
		return nil, err
	}
	return servers, nil
}
