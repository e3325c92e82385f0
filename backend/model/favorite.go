package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFavoriteServer is the join entity between a viewer and a server.
// At most one row may exist per (user, server) pair; rows are only created
// and deleted, never updated.
type UserFavoriteServer struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;uniqueIndex:idx_user_server"`
	ServerID  string    `json:"server_id" gorm:"size:36;uniqueIndex:idx_user_server;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *UserFavoriteServer) TableName() string {
	return "user_favorite_servers"
}

func (f *UserFavoriteServer) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// GetFavorite returns the favorite row for a (user, server) pair, or
// gorm.ErrRecordNotFound.
func GetFavorite(userID, serverID string) (*UserFavoriteServer, error) {
	var favorite UserFavoriteServer
	err := DB.Where("user_id = ? AND server_id = ?", userID, serverID).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// GetFavoriteServers returns the servers a viewer has favorited.
func GetFavoriteServers(userID string) ([]*Server, error) {
	var servers []*Server
	err := DB.
		Joins("JOIN user_favorite_servers f ON f.server_id = servers.id").
		Where("f.user_id = ?", userID).
		Find(&servers).Error
	return servers, err
}

// CountFavoritesByServerID returns how many viewers favorited a server.
func CountFavoritesByServerID(serverID string) (int64, error) {
	var count int64
	err := DB.Model(&UserFavoriteServer{}).
		Where("server_id = ?", serverID).
		Count(&count).Error
	return count, err
}

// ClearFavorites removes every favorite row of a viewer.
func ClearFavorites(userID string) error {
	return DB.Where("user_id = ?", userID).Delete(&UserFavoriteServer{}).Error
}
