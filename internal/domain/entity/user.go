package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"    // gestiona catálogo y puede anular/editar movimientos
	RoleOperator = "operator" // registra cargas y descargas
)

// User usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
