package sorteio

import (
	"time"

	"amigosecreto/models"

	"github.com/jinzhu/gorm"
)

// MembroStatus é uma linha do painel do admin: o membro já sorteou? quando?
// quem ele tirou?
type MembroStatus struct {
	Membro        models.MembroGrupo
	Usuario       models.User
	JaSorteou     bool
	DataSorteio   *time.Time
	AmigoSorteado *models.User
}

// GroupStatus monta o status de sorteio de cada membro do grupo, na ordem
// de ingresso. Só leitura; a restrição "só o admin vê" fica na rota.
func GroupStatus(db *gorm.DB, grupoID int64) ([]MembroStatus, error) {
	membros, err := ListMembros(db, grupoID)
	if err != nil {
		return nil, err
	}

	status := make([]MembroStatus, 0, len(membros))
	for _, membro := range membros {
		var usuario models.User
		if err := db.First(&usuario, membro.UsuarioID).Error; err != nil {
			return nil, err
		}

		entry := MembroStatus{Membro: membro, Usuario: usuario}

		s, err := existing(db, membro.UsuarioID, grupoID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			entry.JaSorteou = true
			entry.DataSorteio = s.DataSorteio

			var amigo models.User
			if err := db.First(&amigo, s.AmigoSorteadoID).Error; err != nil {
				return nil, err
			}
			entry.AmigoSorteado = &amigo
		}

		status = append(status, entry)
	}
	return status, nil
}
