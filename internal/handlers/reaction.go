package handlers

import (
	"net/http"

	"uninews/internal/middleware"
	"uninews/internal/services"

	"github.com/gin-gonic/gin"
)

// ReactionHandler serves article reactions; comment reactions live on the
// comment handler.
type ReactionHandler struct {
	reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// Tally handles GET /news/:artigo/reacoes.
func (h *ReactionHandler) Tally(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	tally, err := h.reactions.ArticleTally(articleID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// Own handles GET /news/:artigo/reacao, the caller's current reaction type.
func (h *ReactionHandler) Own(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	tipo, err := h.reactions.UserReaction(user.ID, articleID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipo": tipo})
}

// React handles POST /news/:artigo/reacoes.
func (h *ReactionHandler) React(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	var in struct {
		Tipo string `json:"tipo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	tally, err := h.reactions.ReactToArticle(user.ID, articleID, in.Tipo)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// Unreact handles DELETE /news/:artigo/reacoes.
func (h *ReactionHandler) Unreact(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	tally, existed, err := h.reactions.UnreactArticle(user.ID, articleID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removida": existed, "reacoes": tally})
}

// RemoveByID handles DELETE /news/:artigo/reacoes/:reacaoId.
func (h *ReactionHandler) RemoveByID(c *gin.Context) {
	reactionID, ok := paramUint(c, "reacaoId")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	tally, err := h.reactions.RemoveArticleReactionByID(user.ID, user.IsAdmin(), reactionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}
