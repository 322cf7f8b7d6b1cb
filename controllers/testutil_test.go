package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"amigosecreto/config"
	dbpkg "amigosecreto/db"
	"amigosecreto/router"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// setupServer sobe o router completo (middlewares incluídos) com um sqlite
// em memória, igual ao que o main monta.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupServerWithConfig(t, config.Configuration{})
}

func setupServerWithConfig(t *testing.T, cfg config.Configuration) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	g.DB().SetMaxOpenConns(1)
	dbpkg.AutoMigrate(g)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(g))
	router.Initialize(r, cfg)

	t.Cleanup(func() { g.Close() })
	return r, g
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response (%d): %s", w.Code, w.Body.String())
	}
	return out
}

// registerAndLogin cadastra o usuário e devolve o bearer token dele.
func registerAndLogin(t *testing.T, r *gin.Engine, nome, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"nome":     nome,
		"email":    email,
		"password": "segredo123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s failed (%d): %s", email, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/login", "", map[string]any{
		"email":    email,
		"password": "segredo123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s failed (%d): %s", email, w.Code, w.Body.String())
	}

	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s não devolveu token", email)
	}
	return token
}

// createGrupoHTTP cria um grupo e devolve (id, codigo_acesso).
func createGrupoHTTP(t *testing.T, r *gin.Engine, token, nome string) (int64, string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/grupos", token, map[string]any{
		"nome":      nome,
		"descricao": "grupo de teste",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create grupo failed (%d): %s", w.Code, w.Body.String())
	}

	grupo, _ := decode(t, w)["grupo"].(map[string]any)
	if grupo == nil {
		t.Fatal("resposta sem grupo")
	}
	id, _ := grupo["id"].(float64)
	codigo, _ := grupo["codigo_acesso"].(string)
	if id == 0 || codigo == "" {
		t.Fatalf("grupo sem id/codigo: %v", grupo)
	}
	return int64(id), codigo
}

func enterGrupo(t *testing.T, r *gin.Engine, token, codigo string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/grupos/entrar", token, map[string]any{"codigo": codigo})
	if w.Code != http.StatusOK {
		t.Fatalf("entrar no grupo failed (%d): %s", w.Code, w.Body.String())
	}
}
