package services

import (
	"fmt"
	"testing"
	"time"

	"uninews/internal/db"
	"uninews/internal/models"
	"uninews/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

var userSeq int

func newUser(t *testing.T, gdb *gorm.DB, role models.Role) *models.User {
	t.Helper()
	userSeq++
	hash, err := utils.HashPassword("senha-padrao")
	require.NoError(t, err)
	user := &models.User{
		Login:        fmt.Sprintf("user%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		Name:         fmt.Sprintf("User %d", userSeq),
		PasswordHash: hash,
		Role:         role,
		TokenVersion: utils.RandomToken(16),
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func newArticle(t *testing.T, gdb *gorm.DB, authorID uint, published bool) *models.Article {
	t.Helper()
	userSeq++
	article := &models.Article{
		Title:     fmt.Sprintf("Artigo %d", userSeq),
		Slug:      fmt.Sprintf("artigo-%d", userSeq),
		Summary:   "resumo",
		Category:  models.CategoryNoticia,
		Published: published,
		AuthorID:  authorID,
	}
	if published {
		now := time.Now()
		article.PublishedAt = &now
	}
	require.NoError(t, gdb.Create(article).Error)
	return article
}
