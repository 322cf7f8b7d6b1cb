package models

import "time"

// MembroGrupo representa o vínculo "usuário pertence ao grupo".
// Regra: no máximo 1 vínculo por (usuario, grupo) — garantido pelo índice
// único composto, e não só pelo check feito antes do insert.
type MembroGrupo struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UsuarioID    int64      `gorm:"column:usuario_id;not null;unique_index:idx_membros_usuario_grupo" json:"usuario_id"`
	GrupoID      int64      `gorm:"column:grupo_id;not null;unique_index:idx_membros_usuario_grupo" json:"grupo_id"`
	DataIngresso *time.Time `gorm:"column:data_ingresso" json:"data_ingresso"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}
