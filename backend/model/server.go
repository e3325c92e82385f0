package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Server represents a listed MCP server. The qualified name is derived at
// creation time as "developer/name" and is unique across the catalog.
type Server struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"size:100;index"`
	QualifiedName string    `json:"qualified_name" gorm:"uniqueIndex;size:200"`
	Description   string    `json:"description"`
	Source        string    `json:"source"`
	Developer     string    `json:"developer" gorm:"size:100;index"`
	Cat           string    `json:"cat" gorm:"size:50;index"`
	IsOfficial    bool      `json:"is_official" gorm:"index"`
	Rating        float64   `json:"rating"`
	GithubStars   int       `json:"github_stars" gorm:"column:github_stars;index"`
	Views         int       `json:"views"`
	Downloads     int       `json:"downloads"`
	Tags          []string  `json:"tags" gorm:"serializer:json"`
	UserID        string    `json:"user_id" gorm:"size:36;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Loaded only when relation loading is requested.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	// Computed per request, never stored.
	IsFavorited bool `json:"is_favorited" gorm:"-"`
}

func (s *Server) TableName() string {
	return "servers"
}

func (s *Server) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ServerMinimal is the reduced field set for the fast listing variant.
type ServerMinimal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	QualifiedName string  `json:"qualified_name"`
	Description   string  `json:"description"`
	Developer     string  `json:"developer"`
	Cat           string  `json:"cat"`
	IsOfficial    bool    `json:"is_official"`
	Rating        float64 `json:"rating"`
	GithubStars   int     `json:"github_stars"`
	Views         int     `json:"views"`
	Downloads     int     `json:"downloads"`
}

// GetServerByID fetches one server, optionally with its config rows.
func GetServerByID(id string) (*Server, error) {
	var server Server
	if err := DB.Where("id = ?", id).First(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// GetServerByQualifiedName fetches one server by its "developer/name" key.
func GetServerByQualifiedName(qualifiedName string) (*Server, error) {
	var server Server
	if err := DB.Where("qualified_name = ?", qualifiedName).First(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// GetServersByUserID returns all servers created by one user.
func GetServersByUserID(userID string) ([]*Server, error) {
	var servers []*Server
	err := DB.Where("user_id = ?", userID).Find(&servers).Error
	return servers, err
}

// CountServers returns the catalog size.
func CountServers() (int64, error) {
	var total int64
	err := DB.Model(&Server{}).Count(&total).Error
	return total, err
}

// DistinctCategories returns the category tags present in the catalog.
func DistinctCategories() ([]string, error) {
	var cats []string
	err := DB.Model(&Server{}).
		Where("cat <> ''").
		Distinct().
		Pluck("cat", &cats).Error
	return cats, err
}
