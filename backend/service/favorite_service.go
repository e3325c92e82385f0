package service

import (
	"context"
	"errors"

	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/gorm"
)

// FavoriteToggleResult reports the state after a favorite mutation.
type FavoriteToggleResult struct {
	IsFavorited bool   `json:"is_favorited"`
	Message     string `json:"message"`
}

// FavoriteStats is the per-server favorite summary.
type FavoriteStats struct {
	ServerID      string `json:"server_id"`
	FavoriteCount int64  `json:"favorite_count"`
	IsFavorited   bool   `json:"is_favorited"`
}

// FavoriteService maintains the (viewer, server) bookmark pairs. Adds are
// idempotent; the uniqueness of a pair is backed by both the upsert flow and
// the composite unique index.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

func serverNotFound() error {
	return apierrors.NotFound(apierrors.ErrServerNotFound, "Server not found")
}

// Add favorites a server. The exists-check and the upsert run in one
// transaction; repeating the call is a no-op.
func (s *FavoriteService) Add(ctx context.Context, userID, serverID string) (FavoriteToggleResult, error) {
	result := FavoriteToggleResult{IsFavorited: true, Message: "Added to favorites"}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var server model.Server
		err := tx.Where("id = ?", serverID).First(&server).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return serverNotFound()
		}
		if err != nil {
			return err
		}

		favorite := model.UserFavoriteServer{UserID: userID, ServerID: serverID}
		res := tx.Where("user_id = ? AND server_id = ?", userID, serverID).
			FirstOrCreate(&favorite)
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			result.Message = "Already in favorites"
			return nil
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result.Message = "Already in favorites"
		}
		return nil
	})
	if err != nil {
		return FavoriteToggleResult{}, err
	}
	return result, nil
}

// Remove unfavorites a server; removing a non-favorite is not an error.
func (s *FavoriteService) Remove(ctx context.Context, userID, serverID string) (FavoriteToggleResult, error) {
	var server model.Server
	err := s.db.WithContext(ctx).Where("id = ?", serverID).First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return FavoriteToggleResult{}, serverNotFound()
	}
	if err != nil {
		return FavoriteToggleResult{}, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND server_id = ?", userID, serverID).
		Delete(&model.UserFavoriteServer{})
	if res.Error != nil {
		return FavoriteToggleResult{}, res.Error
	}
	if res.RowsAffected == 0 {
		return FavoriteToggleResult{IsFavorited: false, Message: "Not in favorites"}, nil
	}
	return FavoriteToggleResult{IsFavorited: false, Message: "Removed from favorites"}, nil
}

// Toggle flips the favorite state of a server.
func (s *FavoriteService) Toggle(ctx context.Context, userID, serverID string) (FavoriteToggleResult, error) {
	var server model.Server
	err := s.db.WithContext(ctx).Where("id = ?", serverID).First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return FavoriteToggleResult{}, serverNotFound()
	}
	if err != nil {
		return FavoriteToggleResult{}, err
	}

	var favorite model.UserFavoriteServer
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND server_id = ?", userID, serverID).
		First(&favorite).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Delete(&favorite).Error; err != nil {
			return FavoriteToggleResult{}, err
		}
		return FavoriteToggleResult{IsFavorited: false, Message: "Server removed from favorites"}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite = model.UserFavoriteServer{UserID: userID, ServerID: serverID}
		if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
			// A concurrent toggle can win the insert between the check and
			// the create; the unique index keeps the pair single and the
			// loser is acknowledged, not failed.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return FavoriteToggleResult{IsFavorited: true, Message: "Already in favorites"}, nil
			}
			return FavoriteToggleResult{}, err
		}
		return FavoriteToggleResult{IsFavorited: true, Message: "Server added to favorites"}, nil
	default:
		return FavoriteToggleResult{}, err
	}
}

// Stats returns the favorite count of a server plus the viewer's own flag.
func (s *FavoriteService) Stats(ctx context.Context, userID, serverID string) (FavoriteStats, error) {
	count, err := model.CountFavoritesByServerID(serverID)
	if err != nil {
		return FavoriteStats{}, err
	}

	isFavorited := false
	if userID != "" {
		_, err := model.GetFavorite(userID, serverID)
		if err == nil {
			isFavorited = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return FavoriteStats{}, err
		}
	}

	return FavoriteStats{
		ServerID:      serverID,
		FavoriteCount: count,
		IsFavorited:   isFavorited,
	}, nil
}

// Check reports whether the viewer has favorited a server.
func (s *FavoriteService) Check(ctx context.Context, userID, serverID string) (bool, error) {
	var server model.Server
	err := s.db.WithContext(ctx).Where("id = ?", serverID).First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, serverNotFound()
	}
	if err != nil {
		return false, err
	}

	_, err = model.GetFavorite(userID, serverID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
