package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/v-wei40680/mcp-linker/backend/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database named after the test, so
// concurrent queries share one store without leaking between tests. The
// global handle is pointed at it too because the model helpers use it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Server{},
		&model.ServerConfig{},
		&model.UserFavoriteServer{},
		&model.Team{},
		&model.TeamMember{},
		&model.TeamConfig{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := model.DB
	model.DB = db
	t.Cleanup(func() {
		model.DB = prev
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()
	user := &model.User{
		ID:       id,
		Email:    id + "@example.com",
		Username: id,
		Fullname: "User " + id,
		Role:     model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedServer(t *testing.T, db *gorm.DB, server *model.Server) *model.Server {
	t.Helper()
	if server.QualifiedName == "" {
		server.QualifiedName = server.Developer + "/" + server.Name
	}
	if err := db.Create(server).Error; err != nil {
		t.Fatalf("seed server %s: %v", server.Name, err)
	}
	return server
}
