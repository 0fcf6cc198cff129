package handlers

import (
	"net/http"

	"uninews/internal/middleware"
	"uninews/internal/services"

	"github.com/gin-gonic/gin"
)

type SolicitacaoHandler struct {
	requests *services.RoleRequestService
}

func NewSolicitacaoHandler(requests *services.RoleRequestService) *SolicitacaoHandler {
	return &SolicitacaoHandler{requests: requests}
}

// Create handles POST /solicitacoes.
func (h *SolicitacaoHandler) Create(c *gin.Context) {
	var in struct {
		Tipo     string `json:"tipo" binding:"required"`
		Mensagem string `json:"mensagem"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	request, err := h.requests.CreateOrReopen(user.ID, in.Tipo, in.Mensagem)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// ListOwn handles GET /solicitacoes, the caller's own request as a list.
func (h *SolicitacaoHandler) ListOwn(c *gin.Context) {
	user := middleware.CurrentUser(c)
	requests, err := h.requests.ListOwn(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListPending handles GET /solicitacoes/pending for approver roles.
func (h *SolicitacaoHandler) ListPending(c *gin.Context) {
	user := middleware.CurrentUser(c)
	requests, err := h.requests.ListPending(user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Accept handles PATCH /solicitacoes/:id/aceitar.
func (h *SolicitacaoHandler) Accept(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	request, err := h.requests.Accept(user, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Reject handles PATCH /solicitacoes/:id/rejeitar.
func (h *SolicitacaoHandler) Reject(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	request, err := h.requests.Reject(user, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
