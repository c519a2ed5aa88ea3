package entity

// Roles de sistema.
const (
	RoleAdmin     = "ADMIN"
	RoleSales     = "SALES"
	RoleWarehouse = "WAREHOUSE"
	RoleUser      = "USER"
)

// User credencial de acceso (AppUsers). PasswordHash siempre es bcrypt.
type User struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	SystemRole   string `db:"system_role"`
	IsActive     bool   `db:"is_active"`
	EmployeeID   string `db:"employee_id"`
}

// Identity identidad decodificada del token que se pasa explícitamente a los casos de uso.
type Identity struct {
	UserID     string
	Username   string
	Role       string
	EmployeeID string
}

// IsZero indica que no hay identidad.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// HasRole indica si la identidad tiene alguno de los roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
