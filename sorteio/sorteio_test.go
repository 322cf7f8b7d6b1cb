package sorteio

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	dbpkg "amigosecreto/db"
	"amigosecreto/models"
	"amigosecreto/tools"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	g, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// pool de 1 conexão: cada conexão sqlite ":memory:" é um banco diferente
	g.DB().SetMaxOpenConns(1)
	dbpkg.AutoMigrate(g)

	t.Cleanup(func() { g.Close() })
	return g
}

func createUser(t *testing.T, g *gorm.DB, nome string) models.User {
	t.Helper()
	u := models.User{
		Nome:     nome,
		Email:    strings.ToLower(nome) + "@example.com",
		Password: "hash",
	}
	if err := g.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", nome, err)
	}
	return u
}

func createGrupo(t *testing.T, g *gorm.DB, admin models.User, membros ...models.User) models.Grupo {
	t.Helper()
	grupo := models.Grupo{
		Nome:         "Natal",
		CodigoAcesso: tools.AccessCode(),
		AdminID:      admin.ID,
	}
	if err := g.Create(&grupo).Error; err != nil {
		t.Fatalf("failed to create grupo: %v", err)
	}
	for _, u := range append([]models.User{admin}, membros...) {
		if _, err := Join(g, u.ID, grupo.ID); err != nil {
			t.Fatalf("failed to join user %d: %v", u.ID, err)
		}
	}
	return grupo
}

func TestPerform(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	c := createUser(t, g, "Clara")
	grupo := createGrupo(t, g, a, b, c)

	s, amigo, err := Perform(g, a.ID, grupo.ID)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}
	if amigo.ID != b.ID && amigo.ID != c.ID {
		t.Errorf("amigo sorteado deveria ser Bruno ou Clara, veio id=%d", amigo.ID)
	}
	if s.AmigoSorteadoID == a.ID {
		t.Error("usuário não pode tirar a si mesmo")
	}
	if s.TokenAcesso == "" {
		t.Error("token de acesso vazio")
	}
	if s.DataSorteio == nil {
		t.Error("data do sorteio não preenchida")
	}

	// o amigo tem que ser membro do grupo
	membro, err := IsMember(g, s.AmigoSorteadoID, grupo.ID)
	if err != nil || !membro {
		t.Errorf("amigo sorteado não é membro do grupo (membro=%v err=%v)", membro, err)
	}
}

func TestPerformTwiceReturnsSameDraw(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	grupo := createGrupo(t, g, a, b)

	primeiro, _, err := Perform(g, a.ID, grupo.ID)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	segundo, _, err := Perform(g, a.ID, grupo.ID)
	if err != ErrAlreadyDrawn {
		t.Fatalf("esperava ErrAlreadyDrawn, veio %v", err)
	}
	if segundo == nil || segundo.TokenAcesso != primeiro.TokenAcesso {
		t.Error("segunda chamada deveria devolver o sorteio existente com o mesmo token")
	}

	var count int64
	if err := g.Model(&models.SorteioIndividual{}).
		Where("usuario_id = ? AND grupo_id = ?", a.ID, grupo.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("esperava 1 sorteio persistido, tem %d", count)
	}
}

func TestPerformConcurrent(t *testing.T) {
	g := setupDB(t)

	admin := createUser(t, g, "Alice")
	outros := make([]models.User, 5)
	for i := range outros {
		outros[i] = createUser(t, g, fmt.Sprintf("Membro%d", i))
	}
	grupo := createGrupo(t, g, admin, outros...)

	usuarios := append([]models.User{admin}, outros...)
	erros := make([]error, len(usuarios))
	sorteios := make([]*models.SorteioIndividual, len(usuarios))

	// todos sorteiam ao mesmo tempo, como requests paralelos fariam
	var wg sync.WaitGroup
	for i, u := range usuarios {
		wg.Add(1)
		go func(i int, usuarioID int64) {
			defer wg.Done()
			sorteios[i], _, erros[i] = Perform(g, usuarioID, grupo.ID)
		}(i, u.ID)
	}
	wg.Wait()

	tokens := map[string]bool{}
	for i, u := range usuarios {
		if erros[i] != nil {
			t.Fatalf("Perform(%d) failed: %v", u.ID, erros[i])
		}
		s := sorteios[i]
		if s.AmigoSorteadoID == u.ID {
			t.Errorf("usuario %d tirou a si mesmo", u.ID)
		}
		if membro, err := IsMember(g, s.AmigoSorteadoID, grupo.ID); err != nil || !membro {
			t.Errorf("amigo do usuario %d não é membro (membro=%v err=%v)", u.ID, membro, err)
		}
		if tokens[s.TokenAcesso] {
			t.Errorf("token repetido: %s", s.TokenAcesso)
		}
		tokens[s.TokenAcesso] = true
	}

	var count int64
	if err := g.Model(&models.SorteioIndividual{}).
		Where("grupo_id = ?", grupo.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != int64(len(usuarios)) {
		t.Errorf("esperava %d sorteios persistidos, tem %d", len(usuarios), count)
	}
}

func TestPerformNotMember(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	fora := createUser(t, g, "Daniel")
	grupo := createGrupo(t, g, a, b)

	if _, _, err := Perform(g, fora.ID, grupo.ID); err != ErrNotMember {
		t.Errorf("esperava ErrNotMember, veio %v", err)
	}
}

func TestPerformNoCandidates(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	grupo := createGrupo(t, g, a)

	if _, _, err := Perform(g, a.ID, grupo.ID); err != ErrNoCandidates {
		t.Errorf("esperava ErrNoCandidates, veio %v", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	c := createUser(t, g, "Clara")
	grupo := createGrupo(t, g, a, b, c)

	vistos := map[string]bool{}
	for _, u := range []models.User{a, b, c} {
		s, _, err := Perform(g, u.ID, grupo.ID)
		if err != nil {
			t.Fatalf("Perform(%d) failed: %v", u.ID, err)
		}
		if vistos[s.TokenAcesso] {
			t.Errorf("token repetido: %s", s.TokenAcesso)
		}
		vistos[s.TokenAcesso] = true
	}
}

func TestResolveByToken(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	grupo := createGrupo(t, g, a, b)

	s, _, err := Perform(g, a.ID, grupo.ID)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	resolvido, err := ResolveByToken(g, s.TokenAcesso)
	if err != nil {
		t.Fatalf("ResolveByToken failed: %v", err)
	}
	if resolvido.ID != s.ID {
		t.Errorf("resolveu sorteio errado: %d != %d", resolvido.ID, s.ID)
	}

	if _, err := ResolveByToken(g, "nao-existe"); err != ErrNotFound {
		t.Errorf("esperava ErrNotFound, veio %v", err)
	}
}

func TestAuthorizeView(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	grupo := createGrupo(t, g, a, b)

	s, _, err := Perform(g, a.ID, grupo.ID)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	if !AuthorizeView(s, a.ID) {
		t.Error("dono do sorteio deveria poder ver")
	}
	// token válido, usuário errado -> negado mesmo assim
	if AuthorizeView(s, b.ID) {
		t.Error("outro usuário não pode ver o sorteio, mesmo com o token")
	}
}

func TestRecordViewMonotonic(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	grupo := createGrupo(t, g, a, b)

	s, _, err := Perform(g, a.ID, grupo.ID)
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}
	if s.VezesVisualizado != 0 {
		t.Fatalf("contador inicial deveria ser 0, é %d", s.VezesVisualizado)
	}

	var anterior time.Time
	for i := int64(1); i <= 3; i++ {
		if err := RecordView(g, s); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
		if s.VezesVisualizado != i {
			t.Errorf("contador deveria ser %d, é %d", i, s.VezesVisualizado)
		}
		if s.UltimaVisualizacao == nil || s.UltimaVisualizacao.Before(anterior) {
			t.Error("última visualização andou para trás")
		}
		anterior = *s.UltimaVisualizacao
	}

	// confere o que foi de fato persistido
	var persistido models.SorteioIndividual
	if err := g.First(&persistido, s.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if persistido.VezesVisualizado != 3 {
		t.Errorf("contador persistido deveria ser 3, é %d", persistido.VezesVisualizado)
	}
	if persistido.UltimaVisualizacao == nil {
		t.Error("última visualização não persistida")
	}
}

func TestJoinDuplicate(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	grupo := createGrupo(t, g, a)

	if _, err := Join(g, a.ID, grupo.ID); err != ErrAlreadyMember {
		t.Errorf("esperava ErrAlreadyMember, veio %v", err)
	}

	// o índice único também segura um insert direto (backstop da corrida)
	agora := time.Now()
	dup := models.MembroGrupo{UsuarioID: a.ID, GrupoID: grupo.ID, DataIngresso: &agora}
	if err := g.Create(&dup).Error; err == nil {
		t.Error("insert duplicado deveria violar o índice único (usuario, grupo)")
	} else if !isUniqueViolation(err) {
		t.Errorf("erro deveria ser de unicidade, veio %v", err)
	}
}

func TestListMembrosOrder(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	grupo := createGrupo(t, g, a)

	var esperados []int64
	esperados = append(esperados, a.ID)
	for i := 0; i < 4; i++ {
		u := createUser(t, g, fmt.Sprintf("User%d", i))
		if _, err := Join(g, u.ID, grupo.ID); err != nil {
			t.Fatalf("join failed: %v", err)
		}
		esperados = append(esperados, u.ID)
	}

	membros, err := ListMembros(g, grupo.ID)
	if err != nil {
		t.Fatalf("ListMembros failed: %v", err)
	}
	if len(membros) != len(esperados) {
		t.Fatalf("esperava %d membros, veio %d", len(esperados), len(membros))
	}
	for i, m := range membros {
		if m.UsuarioID != esperados[i] {
			t.Errorf("ordem de ingresso quebrada na posição %d: %d != %d", i, m.UsuarioID, esperados[i])
		}
	}
}

func TestGroupStatus(t *testing.T) {
	g := setupDB(t)

	a := createUser(t, g, "Alice")
	b := createUser(t, g, "Bruno")
	c := createUser(t, g, "Clara")
	grupo := createGrupo(t, g, a, b, c)

	if _, _, err := Perform(g, b.ID, grupo.ID); err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	status, err := GroupStatus(g, grupo.ID)
	if err != nil {
		t.Fatalf("GroupStatus failed: %v", err)
	}
	if len(status) != 3 {
		t.Fatalf("esperava 3 entradas, veio %d", len(status))
	}

	sortearam := 0
	for _, st := range status {
		if !st.JaSorteou {
			if st.DataSorteio != nil || st.AmigoSorteado != nil {
				t.Error("quem não sorteou não pode ter data nem amigo")
			}
			continue
		}
		sortearam++
		if st.Membro.UsuarioID != b.ID {
			t.Errorf("quem sorteou deveria ser Bruno, foi usuario %d", st.Membro.UsuarioID)
		}
		if st.DataSorteio == nil {
			t.Error("data do sorteio ausente")
		}
		if st.AmigoSorteado == nil || st.AmigoSorteado.Nome == "" {
			t.Error("amigo sorteado ausente no status")
		}
	}
	if sortearam != 1 {
		t.Errorf("exatamente 1 membro deveria ter sorteado, foram %d", sortearam)
	}
}
