package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	dbpkg "amigosecreto/db"
	"amigosecreto/models"
	"amigosecreto/tools"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Nome     string `json:"nome" form:"nome"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /api/users (public)
func CreateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user := models.User{Nome: req.Nome, Email: req.Email}
	if missing := user.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if missing := tools.CheckPassword(req.Password); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(req.Email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var existente models.User
	if err := db.Where("email = ?", req.Email).First(&existente).Error; err == nil {
		RespondError(c, "Email já cadastrado!", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	user.Password = string(hash)

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// boas-vindas: best-effort, nunca quebra o cadastro
	go func(u models.User) {
		corpo := fmt.Sprintf("<p>Olá %s, seu cadastro no Amigo Secreto foi realizado com sucesso!</p>", u.Nome)
		if err := tools.SendEmail(context.Background(), u.Email, "Bem-vindo ao Amigo Secreto", corpo); err != nil {
			slog.Warn("welcome email failed", "user_id", u.ID, "err", err)
		}
	}(user)

	RespondSuccess(c, gin.H{"user": user})
}

// GET /api/me
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	RespondSuccess(c, gin.H{"user": user})
}
