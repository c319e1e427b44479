package entity

import "time"

// User operador del sistema (recepción, farmacia, administración).
type User struct {
	ID           string
	UserName     string
	Email        string // único
	PhoneNumber  string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Age          *int
	UserType     string
	CreatedAt    time.Time
}
