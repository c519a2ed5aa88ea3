package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/internal/domain"
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/pkg/jwt"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// LocalIdentity clave en c.Locals de la identidad decodificada del token.
const LocalIdentity = "identity"

// DefaultPublicPaths rutas accesibles sin token (coincidencia exacta).
var DefaultPublicPaths = []string{
	"/", "/auth/login", "/health",
	"/login.html", "/login.js", "/login.css", "/styles.css", "/favicon.ico",
}

// AuthGateConfig configuración del middleware de autenticación.
type AuthGateConfig struct {
	Secret string
	// LoginPath destino del 302 cuando el cliente es un navegador.
	LoginPath string
	// PublicPaths rutas exactas sin autenticación; vacío usa DefaultPublicPaths.
	PublicPaths []string
	// PublicPrefixes prefijos sin autenticación (p. ej. "/docs").
	PublicPrefixes []string
	Log            *logger.Logger
}

// AuthGate valida el Bearer Token en toda ruta no pública y deja la identidad en c.Locals.
// Sin token o con token inválido/expirado: 401 JSON, o 302 al login si el cliente acepta text/html.
func AuthGate(cfg AuthGateConfig) fiber.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	paths := cfg.PublicPaths
	if len(paths) == 0 {
		paths = DefaultPublicPaths
	}
	public := make(map[string]bool, len(paths)+1)
	for _, p := range paths {
		public[p] = true
	}
	if cfg.LoginPath != "" {
		public[cfg.LoginPath] = true
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if public[path] || hasAnyPrefix(path, cfg.PublicPrefixes) {
			return c.Next()
		}
		claims, err := bearerClaims(c, cfg.Secret)
		if err != nil {
			log.Debug().Str("path", path).Str("reason", err.Error()).Msg("acceso no autenticado")
			if wantsHTML(c) && cfg.LoginPath != "" {
				return c.Redirect(cfg.LoginPath, fiber.StatusFound)
			}
			return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		c.Locals(LocalIdentity, entity.Identity{
			UserID:     claims.UID,
			Username:   claims.Username,
			Role:       claims.Role,
			EmployeeID: claims.EmpID,
		})
		return c.Next()
	}
}

func bearerClaims(c *fiber.Ctx, secret string) (*jwt.Claims, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, fmt.Errorf("falta el header Authorization")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("formato: Bearer <token>")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, fmt.Errorf("token vacío")
	}
	claims, err := jwt.Parse(secret, tokenString)
	if err != nil || claims.UID == "" {
		return nil, fmt.Errorf("token inválido o expirado")
	}
	return claims, nil
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequireRole autoriza solo a los roles indicados. Debe ir después de AuthGate.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.IsZero() {
			return domain.ErrUnauthorized
		}
		if !id.HasRole(roles...) {
			return fmt.Errorf("%w: se requiere rol %s", domain.ErrForbidden, strings.Join(roles, " o "))
		}
		return c.Next()
	}
}

// GetIdentity identidad del request (cero si la ruta es pública).
func GetIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(LocalIdentity).(entity.Identity)
	return id
}
