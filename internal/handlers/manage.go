package handlers

import (
	"net/http"

	"uninews/internal/middleware"
	"uninews/internal/services"
	"uninews/internal/utils"

	"github.com/gin-gonic/gin"
)

// ManageHandler serves the editor surface under /gerenciar. Route-level
// role guards keep it to admins, professors and administrative staff.
type ManageHandler struct {
	articles *services.ArticleService
}

func NewManageHandler(articles *services.ArticleService) *ManageHandler {
	return &ManageHandler{articles: articles}
}

// List handles GET /gerenciar/artigos. Unlike the public listing the
// publication state is a plain filter here.
func (h *ManageHandler) List(c *gin.Context) {
	p := listParams(c)
	switch c.Query("publicado") {
	case "true":
		v := true
		p.Published = &v
	case "false":
		v := false
		p.Published = &v
	}

	result, err := h.articles.List(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create handles POST /gerenciar/artigos.
func (h *ManageHandler) Create(c *gin.Context) {
	var in services.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	article, err := h.articles.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PATCH /gerenciar/artigos/:id.
func (h *ManageHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var in services.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before, err := h.articles.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}
	article, err := h.articles.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}

	utils.GetCache().Delete("article:" + before.Slug)
	utils.GetCache().Delete("article:" + article.Slug)
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /gerenciar/artigos/:id.
func (h *ManageHandler) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	article, err := h.articles.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.articles.Delete(id); err != nil {
		fail(c, err)
		return
	}
	utils.GetCache().Delete("article:" + article.Slug)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
