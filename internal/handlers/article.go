package handlers

import (
	"net/http"
	"time"

	"uninews/internal/models"
	"uninews/internal/services"
	"uninews/internal/utils"

	"github.com/gin-gonic/gin"
)

const articleCacheTTL = 60 * time.Second

// ArticleHandler serves the public reading surface.
type ArticleHandler struct {
	articles  *services.ArticleService
	reactions *services.ReactionService
}

func NewArticleHandler(articles *services.ArticleService, reactions *services.ReactionService) *ArticleHandler {
	return &ArticleHandler{articles: articles, reactions: reactions}
}

// listParams reads the shared filter and pagination query parameters.
func listParams(c *gin.Context) services.ListParams {
	p := services.ListParams{
		Page:      utils.StringToInt(c.Query("pagina")),
		Cursor:    uint(utils.StringToInt(c.Query("cursor"))),
		Take:      utils.StringToInt(c.Query("limite")),
		Busca:     c.Query("busca"),
		AutorID:   uint(utils.StringToInt(c.Query("autorId"))),
		Categoria: c.Query("categoria"),
	}
	if v := c.Query("de"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			p.From = &t
		}
	}
	if v := c.Query("ate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			p.To = &end
		}
	}
	return p
}

// List handles GET /news. Only published articles are visible here.
func (h *ArticleHandler) List(c *gin.Context) {
	p := listParams(c)
	published := true
	p.Published = &published

	result, err := h.articles.List(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBySlug handles GET /news/:artigo, where the parameter is the slug.
// The rendered article is cached for a short window; editor mutations drop
// the entry. The reaction tally is computed per request so it never goes
// stale behind the cache.
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("artigo")
	cacheKey := "article:" + slug

	article, _ := utils.GetCache().Get(cacheKey).(*models.Article)
	if article == nil {
		var err error
		article, err = h.articles.GetBySlug(slug)
		if err != nil {
			fail(c, err)
			return
		}
		utils.GetCache().Set(cacheKey, article, articleCacheTTL)
	}

	tally, err := h.reactions.ArticleTally(article.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artigo": article, "reacoes": tally})
}

// Preview handles GET /news/:artigo/preview for editor roles, showing the
// article regardless of publication state.
func (h *ArticleHandler) Preview(c *gin.Context) {
	article, err := h.articles.Preview(c.Param("artigo"))
	if err != nil {
		fail(c, err)
		return
	}
	tally, err := h.reactions.ArticleTally(article.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artigo": article, "reacoes": tally})
}
