package model

import (
	"time"

	"gorm.io/gorm/clause"
)

// Role values mirror the identity provider's role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is provisioned lazily: the row is created on the first verified token
// and refreshed on every subsequent one, so profile staleness is bounded by
// request frequency. The ID is the identity provider's subject claim.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"size:100;index"`
	Username  string    `json:"username" gorm:"size:50;index"`
	Fullname  string    `json:"fullname" gorm:"size:100"`
	AvatarURL string    `json:"avatar_url" gorm:"size:255"`
	Role      string    `json:"role" gorm:"size:20;default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}

// UpsertUser creates the user row or refreshes its profile fields in place.
func UpsertUser(user *User) error {
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"email", "username", "fullname", "avatar_url", "updated_at"},
		),
	}).Create(user).Error
}

// GetUserByID fetches one user.
func GetUserByID(id string) (*User, error) {
	var user User
	if err := DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches one user by email address.
func GetUserByEmail(email string) (*User, error) {
	var user User
	if err := DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUsername changes the viewer's username.
func (u *User) UpdateUsername(username string) error {
	u.Username = username
	return DB.Model(u).Update("username", username).Error
}
