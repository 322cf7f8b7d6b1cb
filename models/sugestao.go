package models

import "time"

// SugestaoPresente é uma ideia de presente que o usuário cadastra no grupo.
// Quem sorteou o usuário vê as sugestões dele na tela do resultado.
type SugestaoPresente struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	GrupoID   int64      `gorm:"column:grupo_id;not null;index" json:"grupo_id"`
	UsuarioID int64      `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	Descricao string     `gorm:"type:text;not null" json:"descricao" form:"descricao"`
	Link      string     `json:"link" form:"link"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (sugestao SugestaoPresente) MissingFields() string {
	if sugestao.Descricao == "" {
		return "descricao"
	}
	return ""
}
