package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "amigosecreto/db"
	"amigosecreto/models"
	"amigosecreto/sorteio"
	"amigosecreto/tools"

	"github.com/gin-gonic/gin"
)

type CreateGrupoRequest struct {
	Nome        string   `json:"nome" form:"nome"`
	Descricao   string   `json:"descricao" form:"descricao"`
	DataEvento  string   `json:"data_evento" form:"data_evento"`
	LocalEvento string   `json:"local_evento" form:"local_evento"`
	ValorMinimo *float64 `json:"valor_minimo" form:"valor_minimo"`
	ValorMaximo *float64 `json:"valor_maximo" form:"valor_maximo"`
}

type EnterGrupoRequest struct {
	Codigo string `json:"codigo" form:"codigo"`
}

// membroJSON é a forma pública de um membro: vínculo + dados do usuário.
type membroJSON struct {
	ID           int64       `json:"id"`
	UsuarioID    int64       `json:"usuario_id"`
	Usuario      models.User `json:"usuario"`
	DataIngresso *time.Time  `json:"data_ingresso"`
}

// GET /api/dashboard
// Grupos em que o usuário participa + grupos que ele administra.
func Dashboard(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var vinculos []models.MembroGrupo
	if err := db.Where("usuario_id = ?", user.ID).Order("id asc").Find(&vinculos).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	grupos := []models.Grupo{}
	for _, v := range vinculos {
		var grupo models.Grupo
		if err := db.First(&grupo, v.GrupoID).Error; err != nil {
			continue // vínculo inconsistente -> ignora
		}
		grupos = append(grupos, grupo)
	}

	meusGrupos := []models.Grupo{}
	if err := db.Where("admin_id = ?", user.ID).Order("id asc").Find(&meusGrupos).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"grupos": grupos, "meus_grupos": meusGrupos})
}

// POST /api/grupos
// Cria o grupo com um código de acesso novo e já inscreve o admin como
// membro, na mesma transação.
func CreateGrupo(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateGrupoRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	grupo := models.Grupo{
		Nome:         strings.TrimSpace(req.Nome),
		Descricao:    req.Descricao,
		CodigoAcesso: tools.AccessCode(),
		AdminID:      user.ID,
		LocalEvento:  req.LocalEvento,
		ValorMinimo:  req.ValorMinimo,
		ValorMaximo:  req.ValorMaximo,
	}
	if missing := grupo.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	if req.DataEvento != "" {
		data, err := parseDataEvento(req.DataEvento)
		if err != nil {
			RespondError(c, "data_evento inválida", http.StatusBadRequest)
			return
		}
		grupo.DataEvento = &data
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	agora := time.Now()
	tx := db.Begin()
	if err := tx.Create(&grupo).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	membro := models.MembroGrupo{UsuarioID: user.ID, GrupoID: grupo.ID, DataIngresso: &agora}
	if err := tx.Create(&membro).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"grupo": grupo})
}

// GET /api/grupos/:grupoId
// Visão do grupo: membros, sugestões, situação do sorteio do usuário e,
// quando ele é o admin, o status de todos os membros.
func GetGrupoByID(c *gin.Context) {
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

	var grupo models.Grupo
	if err := db.First(&grupo, grupoID).Error; err != nil {
		RespondError(c, "Grupo não encontrado", http.StatusNotFound)
		return
	}

	membro, err := sorteio.IsMember(db, user.ID, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !membro && grupo.AdminID != user.ID {
		RespondError(c, "Acesso negado!", http.StatusForbidden)
		return
	}

	vinculos, err := sorteio.ListMembros(db, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	membros := make([]membroJSON, 0, len(vinculos))
	for _, v := range vinculos {
		var usuario models.User
		if err := db.First(&usuario, v.UsuarioID).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		membros = append(membros, membroJSON{
			ID:           v.ID,
			UsuarioID:    v.UsuarioID,
			Usuario:      usuario,
			DataIngresso: v.DataIngresso,
		})
	}

	sugestoes := []models.SugestaoPresente{}
	if err := db.Where("grupo_id = ?", grupoID).Order("id asc").Find(&sugestoes).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	payload := gin.H{
		"grupo":     grupo,
		"membros":   membros,
		"sugestoes": sugestoes,
	}

	meuSorteio, err := sorteio.ResolveByUsuario(db, user.ID, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	payload["ja_sorteou"] = meuSorteio != nil
	if meuSorteio != nil {
		var amigo models.User
		if err := db.First(&amigo, meuSorteio.AmigoSorteadoID).Error; err == nil {
			payload["amigo_sorteado"] = amigo
		}
	}

	if grupo.AdminID == user.ID {
		status, err := sorteio.GroupStatus(db, grupoID)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		payload["status_membros"] = statusMembrosJSON(status)
	}

	RespondSuccess(c, payload)
}

// POST /api/grupos/entrar
// Entra num grupo pelo código de acesso.
func EnterGrupo(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req EnterGrupoRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	codigo := strings.ToUpper(strings.TrimSpace(req.Codigo))
	if codigo == "" {
		RespondError(c, "codigo é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var grupo models.Grupo
	if err := db.Where("codigo_acesso = ?", codigo).First(&grupo).Error; err != nil {
		RespondError(c, "Código inválido!", http.StatusNotFound)
		return
	}

	membro, err := sorteio.Join(db, user.ID, grupo.ID)
	if err != nil {
		if err == sorteio.ErrAlreadyMember {
			RespondError(c, "Você já é membro deste grupo!", http.StatusBadRequest)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"grupo": grupo, "membro": membro})
}

// parseDataEvento aceita os formatos que o front manda hoje.
func parseDataEvento(v string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
