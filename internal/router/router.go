package router

import (
	"uninews/internal/db"
	"uninews/internal/handlers"
	"uninews/internal/middleware"
	"uninews/internal/models"
	"uninews/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires services, handlers and route groups onto the engine.
func RegisterRoutes(r *gin.Engine) {
	// Services
	tokens := services.NewTokenService()
	notifier := services.NewNotifierFromEnv()
	blobs := services.NewBlobStoreFromEnv()
	requestService := services.NewRoleRequestService(db.DB)
	authService := services.NewAuthService(db.DB, tokens, requestService, notifier)
	articleService := services.NewArticleService(db.DB, blobs)
	commentService := services.NewCommentService(db.DB)
	reactionService := services.NewReactionService(db.DB)
	userService := services.NewUserService(db.DB, requestService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService, reactionService)
	manageHandler := handlers.NewManageHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService, reactionService)
	reactionHandler := handlers.NewReactionHandler(reactionService)
	solicitacaoHandler := handlers.NewSolicitacaoHandler(requestService)
	userHandler := handlers.NewUserHandler(userService)

	r.Use(middleware.LoadUser(tokens))

	// Public routes
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.POST("/auth/forgot-password", authHandler.ForgotPassword)
	r.POST("/auth/reset-password", authHandler.ResetPassword)

	r.GET("/news", articleHandler.List)
	r.GET("/news/:artigo", articleHandler.GetBySlug)
	r.GET("/news/:artigo/comentarios", commentHandler.ListByArticle)
	r.GET("/news/:artigo/reacoes", reactionHandler.Tally)
	r.GET("/news/:artigo/comentarios/:id/reacoes", commentHandler.Tally)

	// Authenticated routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/profile", authHandler.Profile)

		authorized.POST("/news/:artigo/comentarios", commentHandler.Create)
		authorized.PATCH("/comentarios/:id", commentHandler.Update)
		authorized.DELETE("/comentarios/:id", commentHandler.Delete)

		authorized.GET("/news/:artigo/reacao", reactionHandler.Own)
		authorized.POST("/news/:artigo/reacoes", reactionHandler.React)
		authorized.DELETE("/news/:artigo/reacoes", reactionHandler.Unreact)
		authorized.DELETE("/news/:artigo/reacoes/:reacaoId", reactionHandler.RemoveByID)

		authorized.POST("/news/:artigo/comentarios/:id/reacoes", commentHandler.React)
		authorized.DELETE("/news/:artigo/comentarios/:id/reacoes", commentHandler.Unreact)
		authorized.DELETE("/news/:artigo/comentarios/:id/reacoes/:reacaoId", commentHandler.RemoveReaction)

		authorized.POST("/solicitacoes", solicitacaoHandler.Create)
		authorized.GET("/solicitacoes", solicitacaoHandler.ListOwn)
		authorized.GET("/solicitacoes/pending", solicitacaoHandler.ListPending)
		authorized.PATCH("/solicitacoes/:id/aceitar", solicitacaoHandler.Accept)
		authorized.PATCH("/solicitacoes/:id/rejeitar", solicitacaoHandler.Reject)

		authorized.GET("/users", userHandler.List)
		authorized.GET("/users/:id", userHandler.Get)
		authorized.POST("/users", userHandler.Create)
		authorized.PATCH("/users/:id", userHandler.Update)
		authorized.DELETE("/users/:id", userHandler.Delete)
		authorized.PATCH("/users/:id/role", userHandler.SetRole)
	}

	// Editor routes
	editors := r.Group("/")
	editors.Use(middleware.RolesRequired(models.RoleAdmin, models.RoleProfessor, models.RoleTecnico))
	{
		editors.GET("/news/:artigo/preview", articleHandler.Preview)
		editors.GET("/gerenciar/artigos", manageHandler.List)
		editors.POST("/gerenciar/artigos", manageHandler.Create)
		editors.PATCH("/gerenciar/artigos/:id", manageHandler.Update)
		editors.DELETE("/gerenciar/artigos/:id", manageHandler.Delete)
	}
}
