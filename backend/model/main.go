package model

import (
	"github.com/v-wei40680/mcp-linker/backend/common"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() (err error) {
	var dbInstance *gorm.DB

	if common.SQLDSN != "" {
		common.SysLog("Using MySQL database")
		dbInstance, err = gorm.Open(mysql.Open(common.SQLDSN), &gorm.Config{
			PrepareStmt:    true,
			TranslateError: true,
		})
	} else {
		common.SysLog("SQL_DSN not set, using SQLite as database: " + common.SQLitePath)
		dbInstance, err = gorm.Open(sqlite.Open(common.SQLitePath), &gorm.Config{
			PrepareStmt:    true,
			TranslateError: true,
		})
	}
	if err != nil {
		return err
	}

	DB = dbInstance

	err = DB.AutoMigrate(
		&User{},
		&Server{},
		&ServerConfig{},
		&UserFavoriteServer{},
		&Team{},
		&TeamMember{},
		&TeamConfig{},
	)
	if err != nil {
		return err
	}

	common.SysLog("Database initialized successfully.")
	return nil
}

func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	common.SysLog("Closing database connection.")
	return sqlDB.Close()
}
