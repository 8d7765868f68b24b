package domain

import "time"

// Role enumerates the access levels an account can hold.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

// Account is a registered person holding login credentials.
type Account struct {
	ID           string
	Name         string
	LastName     string
	Document     string
	Phone        string
	Email        string
	BirthDate    *time.Time
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicAccount is the projection of an Account that may leave the service.
type PublicAccount struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	LastName  string     `json:"lastName"`
	Document  string     `json:"document"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Public strips the secret hash.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}
	return &PublicAccount{
		ID:        a.ID,
		Name:      a.Name,
		LastName:  a.LastName,
		Document:  a.Document,
		Phone:     a.Phone,
		Email:     a.Email,
		BirthDate: a.BirthDate,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
