package models

import "time"

const (
	RoleUser    = "user"
	RoleCarrier = "transporteur"
	RoleAdmin   = "admin"
)

// Account mirrors the comptes table.
type Account struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"prenom"`
	LastName  string    `json:"nom"`
	Email     string    `json:"email"`
	Phone     string    `json:"telephone"`
	Role      string    `json:"role"`
	Status    string    `json:"statut"`
	CreatedAt time.Time `json:"created_at"`
}

// Carrier mirrors the transporteurs table; one row per carrier account.
type Carrier struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"compte_id"`
	CompanyName string `json:"nom_entreprise"`
	Phone       string `json:"telephone"`
}
