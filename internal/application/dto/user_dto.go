package dto

// LoginRequest entrada para POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token y datos de la sesión. Se devuelve como objeto JSON.
type LoginResponse struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId"`
}
