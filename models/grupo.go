package models

import "time"

// Grupo representa uma edição de amigo secreto.
// CodigoAcesso é único e imutável depois de criado: é por ele que os
// participantes entram no grupo. Os campos de valor/data/local são
// puramente informativos.
type Grupo struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome         string     `gorm:"not null" json:"nome" form:"nome"`
	Descricao    string     `gorm:"type:text" json:"descricao" form:"descricao"`
	CodigoAcesso string     `gorm:"column:codigo_acesso;not null;unique" json:"codigo_acesso"`
	AdminID      int64      `gorm:"not null;index" json:"admin_id"`
	DataEvento   *time.Time `gorm:"column:data_evento" json:"data_evento"`
	LocalEvento  string     `gorm:"column:local_evento" json:"local_evento" form:"local_evento"`
	ValorMinimo  *float64   `gorm:"column:valor_minimo" json:"valor_minimo" form:"valor_minimo"`
	ValorMaximo  *float64   `gorm:"column:valor_maximo" json:"valor_maximo" form:"valor_maximo"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (grupo Grupo) MissingFields() string {
	if grupo.Nome == "" {
		return "nome"
	}
	return ""
}
