package controllers

import (
	"net/http"
	"strings"

	dbpkg "amigosecreto/db"
	"amigosecreto/models"
	"amigosecreto/sorteio"

	"github.com/gin-gonic/gin"
)

type SugestaoRequest struct {
	Descricao string `json:"descricao" form:"descricao"`
	Link      string `json:"link" form:"link"`
}

// GET /api/grupos/:grupoId/sugestoes
// Lista as sugestões do grupo agrupadas por autor.
func GetSugestoes(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	grupoID, ok := ParamID(c, "grupoId")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	membro, err := sorteio.IsMember(db, user.ID, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !membro {
		RespondError(c, "Você não é membro deste grupo!", http.StatusForbidden)
		return
	}

	var sugestoes []models.SugestaoPresente
	if err := db.Where("grupo_id = ?", grupoID).Order("id asc").Find(&sugestoes).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	type grupoDeSugestoes struct {
		Usuario   models.User               `json:"usuario"`
		Sugestoes []models.SugestaoPresente `json:"sugestoes"`
	}

	porUsuario := []grupoDeSugestoes{}
	indice := map[int64]int{}
	for _, sugestao := range sugestoes {
		i, visto := indice[sugestao.UsuarioID]
		if !visto {
			var usuario models.User
			if err := db.First(&usuario, sugestao.UsuarioID).Error; err != nil {
				RespondError(c, err.Error(), http.StatusInternalServerError)
				return
			}
			porUsuario = append(porUsuario, grupoDeSugestoes{Usuario: usuario})
			i = len(porUsuario) - 1
			indice[sugestao.UsuarioID] = i
		}
		porUsuario[i].Sugestoes = append(porUsuario[i].Sugestoes, sugestao)
	}

	RespondSuccess(c, gin.H{"sugestoes_por_usuario": porUsuario})
}

// POST /api/grupos/:grupoId/sugestoes
func CreateSugestao(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	grupoID, ok := ParamID(c, "grupoId")
	if !ok {
		return
	}

	var req SugestaoRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	membro, err := sorteio.IsMember(db, user.ID, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !membro {
		RespondError(c, "Você não é membro deste grupo!", http.StatusForbidden)
		return
	}

	sugestao := models.SugestaoPresente{
		GrupoID:   grupoID,
		UsuarioID: user.ID,
		Descricao: strings.TrimSpace(req.Descricao),
		Link:      strings.TrimSpace(req.Link),
	}
	if missing := sugestao.MissingFields(); missing != "" {
		RespondError(c, "Descrição é obrigatória!", http.StatusBadRequest)
		return
	}

	if err := db.Create(&sugestao).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sugestao": sugestao})
}

// PUT /api/sugestoes/:id (só o autor)
func UpdateSugestao(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req SugestaoRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var sugestao models.SugestaoPresente
	if err := db.First(&sugestao, id).Error; err != nil {
		RespondError(c, "Sugestão não encontrada", http.StatusNotFound)
		return
	}
	if sugestao.UsuarioID != user.ID {
		RespondError(c, "Você não pode editar esta sugestão!", http.StatusForbidden)
		return
	}

	if descricao := strings.TrimSpace(req.Descricao); descricao != "" {
		sugestao.Descricao = descricao
	}
	sugestao.Link = strings.TrimSpace(req.Link)

	if err := db.Save(&sugestao).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sugestao": sugestao})
}

// DELETE /api/sugestoes/:id (só o autor)
func DeleteSugestao(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var sugestao models.SugestaoPresente
	if err := db.First(&sugestao, id).Error; err != nil {
		RespondError(c, "Sugestão não encontrada", http.StatusNotFound)
		return
	}
	if sugestao.UsuarioID != user.ID {
		RespondError(c, "Você não pode remover esta sugestão!", http.StatusForbidden)
		return
	}

	if err := db.Delete(&sugestao).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
