package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"amigosecreto/config"
	dbpkg "amigosecreto/db"
	"amigosecreto/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var security config.SecurityConfig

// SetSecurityConfig injeta segredo e validade do JWT vindos do config,
// no mesmo espírito do SetConfigurations do pacote db.
func SetSecurityConfig(sec config.SecurityConfig) {
	security = sec
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, "Email ou senha inválidos!", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		RespondError(c, "Email ou senha inválidos!", http.StatusUnauthorized)
		return
	}

	signed, err := signAuthToken(user)
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, LoginResponse{Token: signed, User: user})
}

func signAuthToken(user models.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(jwtValidHours()) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getJWTSecret()))
}

func getJWTSecret() string {
	if security.JwtSecret != "" {
		return security.JwtSecret
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	// último fallback: mesmo default do config.json em dev
	return "CHANGE_ME"
}

func jwtValidHours() int {
	if security.JwtValidHour > 0 {
		return security.JwtValidHour
	}
	return 24
}
