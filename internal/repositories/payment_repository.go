package repositories

import (
	"database/sql"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// InsertTx records a settled payment inside the booking transaction so
// no payment row outlives a rolled-back reservation.
func (r PaymentRepository) InsertTx(tx *sql.Tx, reservationID, amount int64) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO paiements (reservation_id, montant, statut)
		VALUES (?, ?, 'paid')`, reservationID, amount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) GetByReservationID(reservationID int64) (models.Payment, error) {
	var p models.Payment
	err := r.db().QueryRow(`
		SELECT id, reservation_id, montant, statut, date_paiement
		FROM paiements WHERE reservation_id=? LIMIT 1`, reservationID).Scan(
		&p.ID, &p.ReservationID, &p.Amount, &p.Status, &p.PaidAt)
	return p, err
}

// PaidRevenue sums settled payments for admin reporting.
func (r PaymentRepository) PaidRevenue() (int64, error) {
	var total int64
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(montant), 0) FROM paiements WHERE statut='paid'`).Scan(&total)
	return total, err
}
