package service

import (
	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/gorm"
)

// AnnotateFavorites sets IsFavorited on each server for the given viewer
// using one batched lookup. A per-item existence query here would be an N+1
// defect. Anonymous viewers skip the lookup entirely.
func AnnotateFavorites(db *gorm.DB, servers []*model.Server, viewerID string) error {
	if viewerID == "" || len(servers) == 0 {
		return nil
	}

	ids := make([]string, len(servers))
	for i, s := range servers {
		ids[i] = s.ID
	}

	var favoritedIDs []string
	err := db.Model(&model.UserFavoriteServer{}).
		Where("user_id = ? AND server_id IN ?", viewerID, ids).
		Pluck("server_id", &favoritedIDs).Error
	if err != nil {
		return err
	}

	favorited := make(map[string]bool, len(favoritedIDs))
	for _, id := range favoritedIDs {
		favorited[id] = true
	}
	for _, s := range servers {
		s.IsFavorited = favorited[s.ID]
	}
	return nil
}

// favoriteServerIDs returns the ids of every server the viewer favorited.
func favoriteServerIDs(db *gorm.DB, viewerID string) ([]string, error) {
	var ids []string
	err := db.Model(&model.UserFavoriteServer{}).
		Where("user_id = ?", viewerID).
		Pluck("server_id", &ids).Error
	return ids, err
}
