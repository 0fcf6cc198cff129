package handlers

import (
	"net/http"

	"uninews/internal/middleware"
	"uninews/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments  *services.CommentService
	reactions *services.ReactionService
}

func NewCommentHandler(comments *services.CommentService, reactions *services.ReactionService) *CommentHandler {
	return &CommentHandler{comments: comments, reactions: reactions}
}

// ListByArticle handles GET /news/:artigo/comentarios.
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	threads, err := h.comments.ListByArticle(articleID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// Create handles POST /news/:artigo/comentarios.
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, ok := paramUint(c, "artigo")
	if !ok {
		return
	}
	var in struct {
		Conteudo  string `json:"conteudo" binding:"required"`
		RespondeA *uint  `json:"responde_a_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	comment, err := h.comments.Create(user.ID, articleID, in.Conteudo, in.RespondeA)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PATCH /comentarios/:id.
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var in struct {
		Conteudo string `json:"conteudo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	comment, err := h.comments.Update(user.ID, user.IsAdmin(), id, in.Conteudo)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /comentarios/:id.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.comments.Remove(user.ID, user.IsAdmin(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Tally handles GET /news/:artigo/comentarios/:id/reacoes.
func (h *CommentHandler) Tally(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	tally, err := h.reactions.CommentTally(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// React handles POST /news/:artigo/comentarios/:id/reacoes.
func (h *CommentHandler) React(c *gin.Context) {
	id, ok := paramUint(c, "id")
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
	tally, err := h.reactions.ReactToComment(user.ID, id, in.Tipo)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// Unreact handles DELETE /news/:artigo/comentarios/:id/reacoes.
func (h *CommentHandler) Unreact(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	tally, existed, err := h.reactions.UnreactComment(user.ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removida": existed, "reacoes": tally})
}

// RemoveReaction handles DELETE /news/:artigo/comentarios/:id/reacoes/:reacaoId.
func (h *CommentHandler) RemoveReaction(c *gin.Context) {
	reactionID, ok := paramUint(c, "reacaoId")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	tally, err := h.reactions.RemoveCommentReactionByID(user.ID, user.IsAdmin(), reactionID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}
