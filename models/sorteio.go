package models

import "time"

// SorteioIndividual representa o resultado de um sorteio: quem o usuário
// tirou dentro de um grupo.
//
// Invariantes:
//   - no máximo 1 sorteio por (usuario, grupo) — índice único composto;
//   - amigo_sorteado_id != usuario_id — ninguém tira a si mesmo;
//   - token_acesso é único no sistema inteiro e gerado com crypto/rand.
//
// Criado uma única vez pelo motor de sorteio; depois disso só os campos de
// visualização mudam (via RecordView). Nunca é deletado em operação normal.
type SorteioIndividual struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UsuarioID          int64      `gorm:"column:usuario_id;not null;unique_index:idx_sorteios_usuario_grupo" json:"usuario_id"`
	GrupoID            int64      `gorm:"column:grupo_id;not null;unique_index:idx_sorteios_usuario_grupo" json:"grupo_id"`
	AmigoSorteadoID    int64      `gorm:"column:amigo_sorteado_id;not null" json:"amigo_sorteado_id"`
	DataSorteio        *time.Time `gorm:"column:data_sorteio" json:"data_sorteio"`
	UltimaVisualizacao *time.Time `gorm:"column:ultima_visualizacao" json:"ultima_visualizacao"`
	VezesVisualizado   int64      `gorm:"column:vezes_visualizado;not null;default:0" json:"vezes_visualizado"`
	TokenAcesso        string     `gorm:"column:token_acesso;not null;unique_index" json:"token_acesso"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}
