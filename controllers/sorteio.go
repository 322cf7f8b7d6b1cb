package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	dbpkg "amigosecreto/db"
	"amigosecreto/models"
	"amigosecreto/sorteio"
	"amigosecreto/tools"

	"github.com/gin-gonic/gin"
)

func meuSorteioPath(token string) string {
	return "/meu-sorteio/" + token
}

// GET /grupo/:grupoId/sorteio
// "Tela" do sorteio: exige ser membro; se o usuário já sorteou, redireciona
// pra página do resultado dele.
func GetSorteioScreen(c *gin.Context) {
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
	if !membro {
		RespondError(c, "Você não é membro deste grupo!", http.StatusForbidden)
		return
	}

	existente, err := sorteio.ResolveByUsuario(db, user.ID, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if existente != nil {
		c.Redirect(http.StatusFound, meuSorteioPath(existente.TokenAcesso))
		return
	}

	participantes, err := sorteio.Participantes(db, grupoID, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(participantes) < 1 {
		RespondError(c, "Não há participantes suficientes para sortear!", http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"grupo": grupo, "participantes": participantes})
}

// POST /grupo/:grupoId/realizar-sorteio
// Realiza o sorteio do usuário logado. Contrato de sucesso:
// {success, amigo:{id,nome,email}, token, redirect}.
func PerformSorteio(c *gin.Context) {
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

	s, amigo, err := sorteio.Perform(db, user.ID, grupoID)
	switch err {
	case nil:
		// segue
	case sorteio.ErrNotMember:
		RespondError(c, "Você não é membro deste grupo!", http.StatusForbidden)
		return
	case sorteio.ErrAlreadyDrawn:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Você já realizou o sorteio!",
			"redirect": meuSorteioPath(s.TokenAcesso),
		})
		return
	case sorteio.ErrNoCandidates:
		RespondError(c, "Não há participantes disponíveis!", http.StatusBadRequest)
		return
	default:
		slog.Error("realizar sorteio failed", "usuario_id", user.ID, "grupo_id", grupoID, "err", err)
		RespondError(c, "erro ao realizar sorteio", http.StatusInternalServerError)
		return
	}

	// aviso por email: best-effort, nunca segura a resposta
	go func(u models.User, g models.Grupo, token string) {
		corpo := fmt.Sprintf(
			"<p>Olá %s, seu amigo secreto do grupo <b>%s</b> foi sorteado! Veja o resultado em %s</p>",
			u.Nome, g.Nome, meuSorteioPath(token),
		)
		if err := tools.SendEmail(context.Background(), u.Email, "Seu amigo secreto foi sorteado!", corpo); err != nil {
			slog.Warn("sorteio email failed", "usuario_id", u.ID, "err", err)
		}
	}(user, grupo, s.TokenAcesso)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"amigo": gin.H{
			"id":    amigo.ID,
			"nome":  amigo.Nome,
			"email": amigo.Email,
		},
		"token":    s.TokenAcesso,
		"redirect": meuSorteioPath(s.TokenAcesso),
	})
}

// GET /meu-sorteio/:token
// Resultado do sorteio: só o dono vê, e toda visualização autorizada conta
// no contador e atualiza a última visualização.
func GetMeuSorteio(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	token := c.Param("token")

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	s, err := sorteio.ResolveByToken(db, token)
	if err != nil {
		if err == sorteio.ErrNotFound {
			RespondError(c, "Sorteio não encontrado", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	if !sorteio.AuthorizeView(s, user.ID) {
		RespondError(c, "Acesso negado! Este sorteio não é seu.", http.StatusForbidden)
		return
	}

	if err := sorteio.RecordView(db, s); err != nil {
		slog.Error("record view failed", "sorteio_id", s.ID, "err", err)
		RespondError(c, "erro ao registrar visualização", http.StatusInternalServerError)
		return
	}

	var grupo models.Grupo
	if err := db.First(&grupo, s.GrupoID).Error; err != nil {
		RespondError(c, "Grupo não encontrado", http.StatusNotFound)
		return
	}
	var amigo models.User
	if err := db.First(&amigo, s.AmigoSorteadoID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	sugestoesAmigo := []models.SugestaoPresente{}
	if err := db.Where("grupo_id = ? AND usuario_id = ?", grupo.ID, s.AmigoSorteadoID).
		Order("id asc").Find(&sugestoesAmigo).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"sorteio":         s,
		"grupo":           grupo,
		"amigo":           amigo,
		"sugestoes_amigo": sugestoesAmigo,
	})
}

// GET /api/grupo/:grupoId/status-sorteio (admin do grupo)
// O Adminizer da rota já garantiu que o usuário é o admin do grupo.
func GetSorteioStatus(c *gin.Context) {
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

	status, err := sorteio.GroupStatus(db, grupoID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"grupo": gin.H{
			"id":            grupo.ID,
			"nome":          grupo.Nome,
			"total_membros": len(status),
		},
		"membros": statusMembrosJSON(status),
	})
}

func statusMembrosJSON(status []sorteio.MembroStatus) []gin.H {
	out := make([]gin.H, 0, len(status))
	for _, st := range status {
		entry := gin.H{
			"id":             st.Membro.ID,
			"usuario_id":     st.Membro.UsuarioID,
			"nome":           st.Usuario.Nome,
			"email":          st.Usuario.Email,
			"ja_sorteou":     st.JaSorteou,
			"data_sorteio":   nil,
			"amigo_sorteado": nil,
		}
		if st.DataSorteio != nil {
			entry["data_sorteio"] = st.DataSorteio.Format(time.RFC3339)
		}
		if st.AmigoSorteado != nil {
			entry["amigo_sorteado"] = st.AmigoSorteado.Nome
		}
		out = append(out, entry)
	}
	return out
}
