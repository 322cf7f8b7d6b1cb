package sorteio

import (
	"time"

	"amigosecreto/models"

	"github.com/jinzhu/gorm"
)

// IsMember diz se o usuário pertence ao grupo.
func IsMember(db *gorm.DB, usuarioID, grupoID int64) (bool, error) {
	var membro models.MembroGrupo
	err := db.Where("usuario_id = ? AND grupo_id = ?", usuarioID, grupoID).First(&membro).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListMembros retorna os vínculos do grupo na ordem de ingresso (id asc).
func ListMembros(db *gorm.DB, grupoID int64) ([]models.MembroGrupo, error) {
	var membros []models.MembroGrupo
	if err := db.Where("grupo_id = ?", grupoID).Order("id asc").Find(&membros).Error; err != nil {
		return nil, err
	}
	return membros, nil
}

// Participantes retorna os usuários do grupo, na ordem de ingresso,
// excluindo excluirUsuarioID (passe 0 para não excluir ninguém).
func Participantes(db *gorm.DB, grupoID, excluirUsuarioID int64) ([]models.User, error) {
	membros, err := ListMembros(db, grupoID)
	if err != nil {
		return nil, err
	}

	var usuarios []models.User
	for _, membro := range membros {
		if membro.UsuarioID == excluirUsuarioID {
			continue
		}
		var usuario models.User
		if err := db.First(&usuario, membro.UsuarioID).Error; err != nil {
			return nil, err
		}
		usuarios = append(usuarios, usuario)
	}
	return usuarios, nil
}

// Join vincula o usuário ao grupo.
// O check prévio resolve o caso comum; o índice único (usuario, grupo) é
// quem fecha a corrida de dois joins simultâneos.
func Join(db *gorm.DB, usuarioID, grupoID int64) (*models.MembroGrupo, error) {
	ja, err := IsMember(db, usuarioID, grupoID)
	if err != nil {
		return nil, err
	}
	if ja {
		return nil, ErrAlreadyMember
	}

	agora := time.Now()
	membro := models.MembroGrupo{
		UsuarioID:    usuarioID,
		GrupoID:      grupoID,
		DataIngresso: &agora,
	}
	if err := db.Create(&membro).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	return &membro, nil
}
