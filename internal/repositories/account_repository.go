package repositories

import (
	"database/sql"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain/models"
)

type AccountRepository struct {
	DB *sql.DB
}

func (r AccountRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AccountRepository) Create(a models.Account, passwordHash string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO comptes (prenom, nom, email, telephone, password_hash, role, statut)
		VALUES (?, ?, ?, ?, ?, ?, 'active')`,
		a.FirstName, a.LastName, a.Email, a.Phone, passwordHash, a.Role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r AccountRepository) EmailExists(email string) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM comptes WHERE email=?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByEmail also returns the stored password hash for login checks.
func (r AccountRepository) GetByEmail(email string) (models.Account, string, error) {
	var (
		a    models.Account
		hash string
	)
	err := r.db().QueryRow(`
		SELECT id, prenom, nom, email, telephone, password_hash, role, statut, created_at
		FROM comptes WHERE email=? LIMIT 1`, email).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &hash, &a.Role, &a.Status, &a.CreatedAt)
	if err != nil {
		return models.Account{}, "", err
	}
	return a, hash, nil
}

func (r AccountRepository) CreateCarrier(c models.Carrier) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO transporteurs (compte_id, nom_entreprise, telephone)
		VALUES (?, ?, ?)`, c.AccountID, c.CompanyName, c.Phone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r AccountRepository) GetCarrierByAccountID(accountID int64) (models.Carrier, error) {
	var c models.Carrier
	err := r.db().QueryRow(`
		SELECT id, compte_id, nom_entreprise, telephone
		FROM transporteurs WHERE compte_id=? LIMIT 1`, accountID).Scan(
		&c.ID, &c.AccountID, &c.CompanyName, &c.Phone)
	return c, err
}
