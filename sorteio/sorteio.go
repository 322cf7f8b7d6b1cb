// Package sorteio implementa o núcleo do amigo secreto: quem pertence a
// qual grupo, o sorteio em si (uma vez por usuário por grupo) e o acesso
// ao resultado via token.
package sorteio

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"amigosecreto/models"
	"amigosecreto/tools"

	"github.com/jinzhu/gorm"
)

var (
	ErrNotMember     = errors.New("usuário não é membro do grupo")
	ErrAlreadyDrawn  = errors.New("usuário já realizou o sorteio neste grupo")
	ErrNoCandidates  = errors.New("não há participantes disponíveis para sortear")
	ErrNotFound      = errors.New("sorteio não encontrado")
	ErrForbidden     = errors.New("sorteio pertence a outro usuário")
	ErrAlreadyMember = errors.New("usuário já é membro do grupo")
)

// Perform sorteia um amigo para o usuário dentro do grupo.
//
// Pré-condições, nesta ordem: ser membro (ErrNotMember); não ter sorteado
// ainda (ErrAlreadyDrawn, devolvendo o sorteio existente para o caller
// redirecionar pro token dele); existir pelo menos um outro membro
// (ErrNoCandidates).
//
// A escolha é uniforme entre os membros atuais menos o próprio usuário.
// Cada sorteio é independente dos demais: o mesmo amigo pode ser tirado
// por mais de uma pessoa e nada garante um ciclo fechado. Isso é o
// comportamento do produto, não troque por um algoritmo de derangement.
//
// O insert conta com o índice único (usuario, grupo) como trava contra
// dois sorteios simultâneos do mesmo usuário: violação vira ErrAlreadyDrawn.
func Perform(db *gorm.DB, usuarioID, grupoID int64) (*models.SorteioIndividual, *models.User, error) {
	membro, err := IsMember(db, usuarioID, grupoID)
	if err != nil {
		return nil, nil, err
	}
	if !membro {
		return nil, nil, ErrNotMember
	}

	if existente, err := existing(db, usuarioID, grupoID); err != nil {
		return nil, nil, err
	} else if existente != nil {
		return existente, nil, ErrAlreadyDrawn
	}

	participantes, err := Participantes(db, grupoID, usuarioID)
	if err != nil {
		return nil, nil, err
	}
	if len(participantes) < 1 {
		return nil, nil, ErrNoCandidates
	}

	// rand.Intn de topo é protegido por lock: sorteios chegam em paralelo
	amigo := participantes[rand.Intn(len(participantes))]

	for tentativa := 0; ; tentativa++ {
		agora := time.Now()
		s := models.SorteioIndividual{
			UsuarioID:       usuarioID,
			GrupoID:         grupoID,
			AmigoSorteadoID: amigo.ID,
			DataSorteio:     &agora,
			TokenAcesso:     tools.AccessToken(),
		}

		err := db.Create(&s).Error
		if err == nil {
			return &s, &amigo, nil
		}
		if !isUniqueViolation(err) {
			return nil, nil, err
		}

		// Violação de unicidade: ou outro request do mesmo usuário ganhou a
		// corrida (usuario, grupo), ou o token colidiu. Distinguimos
		// re-consultando o sorteio existente.
		if existente, err2 := existing(db, usuarioID, grupoID); err2 != nil {
			return nil, nil, err2
		} else if existente != nil {
			return existente, nil, ErrAlreadyDrawn
		}

		// Colisão de token (32 bytes de entropia... improvável, mas barato
		// de tratar): gera outro e tenta de novo.
		if tentativa >= 3 {
			return nil, nil, err
		}
	}
}

// ResolveByUsuario retorna o sorteio do usuário no grupo, ou nil se ele
// ainda não sorteou.
func ResolveByUsuario(db *gorm.DB, usuarioID, grupoID int64) (*models.SorteioIndividual, error) {
	return existing(db, usuarioID, grupoID)
}

// ResolveByToken localiza um sorteio pelo token opaco.
func ResolveByToken(db *gorm.DB, token string) (*models.SorteioIndividual, error) {
	var s models.SorteioIndividual
	err := db.Where("token_acesso = ?", token).First(&s).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// AuthorizeView diz se o usuário pode ver o resultado: só o dono do
// sorteio, mesmo que o token em si seja inadivinhável.
func AuthorizeView(s *models.SorteioIndividual, usuarioID int64) bool {
	return s.UsuarioID == usuarioID
}

// RecordView registra uma visualização autorizada: incrementa o contador
// (atomicamente, no banco) e atualiza a última visualização. Sem
// deduplicação e sem teto — toda visualização conta.
func RecordView(db *gorm.DB, s *models.SorteioIndividual) error {
	agora := time.Now()
	err := db.Model(s).Updates(map[string]interface{}{
		"vezes_visualizado":   gorm.Expr("vezes_visualizado + 1"),
		"ultima_visualizacao": agora,
	}).Error
	if err != nil {
		return err
	}
	s.VezesVisualizado++
	s.UltimaVisualizacao = &agora
	return nil
}

func existing(db *gorm.DB, usuarioID, grupoID int64) (*models.SorteioIndividual, error) {
	var s models.SorteioIndividual
	err := db.Where("usuario_id = ? AND grupo_id = ?", usuarioID, grupoID).First(&s).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// isUniqueViolation cobre sqlite3 e postgres, os dois dialetos suportados.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
