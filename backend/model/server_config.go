package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServerConfig holds one opaque configuration payload for a server: either a
// "command + args + env" shape or a "url + type" shape. The payload is stored
// as raw JSON; the API never interprets it beyond shape detection on input.
type ServerConfig struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	ServerID    string `json:"server_id" gorm:"size:36;index"`
	ConfigItems string `json:"-" gorm:"type:text"`
}

func (c *ServerConfig) TableName() string {
	return "server_configs"
}

func (c *ServerConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Items returns the stored payload as raw JSON for response embedding.
func (c *ServerConfig) Items() json.RawMessage {
	if c.ConfigItems == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(c.ConfigItems)
}

func (c *ServerConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"id":           c.ID,
		"server_id":    c.ServerID,
		"config_items": c.Items(),
	})
}

// CreateServerConfigs inserts one config row per payload inside tx.
func CreateServerConfigs(tx *gorm.DB, serverID string, configs []json.RawMessage) error {
	for _, raw := range configs {
		config := &ServerConfig{
			ServerID:    serverID,
			ConfigItems: string(raw),
		}
		if err := tx.Create(config).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteServerConfigs removes every config row of a server inside tx. Must
// run before the server row itself is deleted (foreign key constraint).
func DeleteServerConfigs(tx *gorm.DB, serverID string) error {
	return tx.Where("server_id = ?", serverID).Delete(&ServerConfig{}).Error
}

// GetConfigsByServerID returns all config rows of a server.
func GetConfigsByServerID(serverID string) ([]*ServerConfig, error) {
	var configs []*ServerConfig
	err := DB.Where("server_id = ?", serverID).Find(&configs).Error
	return configs, err
}

// GetFirstConfigByServerID returns the first config row of a server, or
// gorm.ErrRecordNotFound.
func GetFirstConfigByServerID(serverID string) (*ServerConfig, error) {
	var config ServerConfig
	if err := DB.Where("server_id = ?", serverID).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}
