package router

import (
	"net/http"

	"amigosecreto/controllers"
	dbpkg "amigosecreto/db"
	"amigosecreto/models"

	"github.com/gin-gonic/gin"
)

// Adminizer blocks access when the logged user is not the admin of the
// group in :grupoId.
func Adminizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}

		grupoID, ok := controllers.ParamID(c, "grupoId")
		if !ok {
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			controllers.RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}

		var grupo models.Grupo
		if err := db.First(&grupo, grupoID).Error; err != nil {
			controllers.RespondError(c, "Grupo não encontrado", http.StatusNotFound)
			c.Abort()
			return
		}

		if grupo.AdminID != user.ID {
			controllers.RespondError(c, "Acesso negado! Apenas o admin pode ver este status.", http.StatusForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
