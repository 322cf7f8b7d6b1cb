package router

import (
	"log/slog"

	"amigosecreto/config"
	"amigosecreto/controllers"
	"amigosecreto/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares: public routes, authenticated
// routes and the group-admin routes (Adminizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	controllers.SetSecurityConfig(cfg.Security)

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/users", Logger(), controllers.CreateUser)
	api.POST("/login", Logger(), controllers.Login)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())
	auth.GET("/me", Logger(), controllers.Me)
	auth.GET("/dashboard", Logger(), controllers.Dashboard)

	// Grupos
	auth.POST("/grupos", Logger(), controllers.CreateGrupo)
	auth.GET("/grupos/:grupoId", Logger(), controllers.GetGrupoByID)
	auth.POST("/grupos/entrar", Logger(), controllers.EnterGrupo)

	// Sugestões
	auth.GET("/grupos/:grupoId/sugestoes", Logger(), controllers.GetSugestoes)
	auth.POST("/grupos/:grupoId/sugestoes", Logger(), controllers.CreateSugestao)
	auth.PUT("/sugestoes/:id", Logger(), controllers.UpdateSugestao)
	auth.DELETE("/sugestoes/:id", Logger(), controllers.DeleteSugestao)

	// Status do sorteio (admin do grupo)
	admin := auth.Group("")
	admin.Use(Adminizer())
	admin.GET("/grupo/:grupoId/status-sorteio", Logger(), controllers.GetSorteioStatus)

	// Fluxo do sorteio (caminhos fixos, fora do /api)
	sorteio := r.Group("")
	sorteio.Use(controllers.AuthRequired())
	sorteio.GET("/grupo/:grupoId/sorteio", Logger(), controllers.GetSorteioScreen)
	sorteio.POST("/grupo/:grupoId/realizar-sorteio", Logger(), controllers.PerformSorteio)
	sorteio.GET("/meu-sorteio/:token", Logger(), controllers.GetMeuSorteio)

	slog.Info("routes initialized")
}
