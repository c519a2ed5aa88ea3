package http

import (
	"github.com/gofiber/fiber/v2"
)

// TechStatus datos de diagnóstico expuestos a ADMIN.
type TechStatus struct {
	App        string   `json:"app"`
	Env        string   `json:"env"`
	Storage    string   `json:"storage"`
	EntitySets []string `json:"entitySets"`
	User       struct {
		ID         string `json:"ID"`
		Username   string `json:"username"`
		Role       string `json:"role"`
		EmployeeID string `json:"employeeId"`
	} `json:"user"`
}

// TechHandler vista técnica (solo ADMIN).
type TechHandler struct {
	app, env, storage string
	sets              []string
}

// NewTechHandler construye el handler. sets son los nombres de conjuntos expuestos.
func NewTechHandler(app, env, storage string, sets []string) *TechHandler {
	return &TechHandler{app: app, env: env, storage: storage, sets: sets}
}

// Status godoc
// @Summary      Estado técnico
// @Tags         tech
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  TechStatus
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /tech/status [get]
func (h *TechHandler) Status(c *fiber.Ctx) error {
	id := GetIdentity(c)
	out := TechStatus{App: h.app, Env: h.env, Storage: h.storage, EntitySets: h.sets}
	out.User.ID, out.User.Username, out.User.Role, out.User.EmployeeID = id.UserID, id.Username, id.Role, id.EmployeeID
	return c.JSON(out)
}
