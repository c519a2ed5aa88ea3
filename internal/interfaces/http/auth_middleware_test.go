package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/pyme-erp/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pyme-erp/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "pyme-erp-test"
	testExpMin    = 60
)

// buildGateApp app mínima: AuthGate + RequireRole + handler que devuelve la identidad.
func buildGateApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Use(apphttp.AuthGate(apphttp.AuthGateConfig{Secret: testJWTSecret, LoginPath: "/login.html"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("home") })
	app.Get("/login.html", func(c *fiber.Ctx) error { return c.SendString("login") })
	handlers := []fiber.Handler{}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id := apphttp.GetIdentity(c)
		return c.JSON(fiber.Map{"uid": id.UserID, "role": id.Role, "empId": id.EmployeeID, "username": id.Username})
	})
	app.Get("/catalog/Products", handlers...)
	return app
}

func bearer(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Subject{UID: testUserID, Username: "ana", Role: role, EmpID: "emp-1"}, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, auth, accept string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthGate_SinToken_API401(t *testing.T) {
	resp := get(t, buildGateApp(), "/catalog/Products", "", "application/json")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"code":"UNAUTHORIZED"`)
}

func TestAuthGate_SinToken_NavegadorRedirige(t *testing.T) {
	resp := get(t, buildGateApp(), "/catalog/Products", "", "text/html,application/xhtml+xml")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login.html", resp.Header.Get("Location"))
}

func TestAuthGate_TokenExpirado(t *testing.T) {
	app := buildGateApp()
	expired := bearer(t, "ADMIN", -1)

	resp := get(t, app, "/catalog/Products", expired, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "cliente API recibe 401")

	resp2 := get(t, app, "/catalog/Products", expired, "text/html")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusFound, resp2.StatusCode, "navegador es redirigido al login")
}

func TestAuthGate_FormatoInvalido(t *testing.T) {
	app := buildGateApp()
	for _, h := range []string{"Basic abc", "Bearer ", "Bearer token.invalido.aqui"} {
		resp := get(t, app, "/catalog/Products", h, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
	}
}

func TestAuthGate_RutasPublicasExactas(t *testing.T) {
	app := buildGateApp()

	resp := get(t, app, "/", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2 := get(t, app, "/login.html", "", "text/html")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	// "/" es público solo como ruta exacta
	resp3 := get(t, app, "/catalog/Products", "", "")
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp3.StatusCode)
}

func TestAuthGate_ExtraeIdentidad(t *testing.T) {
	resp := get(t, buildGateApp(), "/catalog/Products", bearer(t, "SALES", testExpMin), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["uid"])
	assert.Equal(t, "SALES", body["role"])
	assert.Equal(t, "emp-1", body["empId"])
	assert.Equal(t, "ana", body["username"])
}

func TestRequireRole(t *testing.T) {
	app := buildGateApp("ADMIN", "WAREHOUSE")

	ok := get(t, app, "/catalog/Products", bearer(t, "WAREHOUSE", testExpMin), "")
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	denied := get(t, app, "/catalog/Products", bearer(t, "SALES", testExpMin), "")
	defer denied.Body.Close()
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	body, _ := io.ReadAll(denied.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}
