package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRole is a member's role inside a team.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "OWNER"
	TeamRoleAdmin  TeamRole = "ADMIN"
	TeamRoleMember TeamRole = "MEMBER"
	TeamRoleViewer TeamRole = "VIEWER"
)

func IsValidTeamRole(role TeamRole) bool {
	switch role {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleMember, TeamRoleViewer:
		return true
	}
	return false
}

// Team is a named group of viewers sharing configurations.
type Team struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id" gorm:"size:36;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TeamMember joins a viewer to a team with a role. Invariant enforced by the
// team service: a team always keeps at least one OWNER member.
type TeamMember struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	TeamID    string    `json:"team_id" gorm:"size:36;uniqueIndex:idx_team_user"`
	UserID    string    `json:"user_id" gorm:"size:36;uniqueIndex:idx_team_user;index"`
	Role      TeamRole  `json:"role" gorm:"size:10"`
	InvitedBy string    `json:"invited_by" gorm:"size:36"`
	JoinedAt  time.Time `json:"joined_at" gorm:"autoCreateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *TeamMember) TableName() string {
	return "team_members"
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TeamConfig is a named configuration payload scoped to a team.
type TeamConfig struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	TeamID      string         `json:"team_id" gorm:"size:36;index"`
	Name        string         `json:"name" gorm:"size:100"`
	Description string         `json:"description"`
	ConfigData  map[string]any `json:"config_data" gorm:"serializer:json"`
	CreatedBy   string         `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (c *TeamConfig) TableName() string {
	return "team_configs"
}

func (c *TeamConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// GetTeamsByOwnerID returns all teams owned by a viewer.
func GetTeamsByOwnerID(ownerID string) ([]*Team, error) {
	var teams []*Team
	err := DB.Where("owner_id = ?", ownerID).Find(&teams).Error
	return teams, err
}
