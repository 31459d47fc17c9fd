package repositories

import (
	"database/sql"
	"strings"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"
	"billettigue/internal/domain/models"
)

const reservationColumns = `id, trajet_id, compte_id, reference,
	prenom_passager, nom_passager, telephone_passager, nombre_places, statut,
	option_remboursable, montant_supplement, montant_total, methode_paiement, date_reservation`

type ReservationRepository struct {
	DB *sql.DB
}

func (r ReservationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// InsertTx writes the reservation row inside the booking transaction,
// next to the seat decrement.
func (r ReservationRepository) InsertTx(tx *sql.Tx, res models.Reservation) (int64, error) {
	out, err := tx.Exec(`
		INSERT INTO reservations (trajet_id, compte_id, reference,
			prenom_passager, nom_passager, telephone_passager, nombre_places, statut,
			option_remboursable, montant_supplement, montant_total, methode_paiement)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.TrajetID, nullAccount(res.AccountID), res.Reference,
		res.FirstName, res.LastName, res.Phone, res.Seats, string(res.Status),
		res.Refundable, res.Supplement, res.TotalAmount, string(res.Method),
	)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func (r ReservationRepository) GetByID(id int64) (models.Reservation, error) {
	row := r.db().QueryRow(`SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1`, id)
	return scanReservation(row)
}

// LockByID reads a reservation under FOR UPDATE inside a cancellation
// or status-change transaction.
func (r ReservationRepository) LockByID(tx *sql.Tx, id int64) (models.Reservation, error) {
	row := tx.QueryRow(`SELECT `+reservationColumns+` FROM reservations WHERE id=? FOR UPDATE`, id)
	return scanReservation(row)
}

func (r ReservationRepository) UpdateStatusTx(tx *sql.Tx, id int64, status models.ReservationStatus) error {
	_, err := tx.Exec(`UPDATE reservations SET statut=? WHERE id=?`, string(status), id)
	return err
}

func (r ReservationRepository) ListByAccount(accountID int64, p domain.Pagination) ([]models.Reservation, int, error) {
	p.Normalize()

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM reservations WHERE compte_id=?`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db().Query(`SELECT `+reservationColumns+` FROM reservations
		WHERE compte_id=? ORDER BY date_reservation DESC, id DESC LIMIT ? OFFSET ?`,
		accountID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectReservations(rows)
	return out, total, err
}

func (r ReservationRepository) ListByTrajet(trajetID int64) ([]models.Reservation, error) {
	rows, err := r.db().Query(`SELECT `+reservationColumns+` FROM reservations
		WHERE trajet_id=? ORDER BY date_reservation DESC, id DESC`, trajetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// CarrierFilter narrows carrier-scoped reservation listings.
type CarrierFilter struct {
	TrajetID int64
	Status   models.ReservationStatus
}

// ListByCarrier returns reservations whose trajet belongs to the
// carrier; the join is the ownership check.
func (r ReservationRepository) ListByCarrier(carrierID int64, f CarrierFilter, p domain.Pagination) ([]models.Reservation, int, error) {
	p.Normalize()

	where := []string{"t.transporteur_id=?"}
	args := []any{carrierID}
	if f.TrajetID > 0 {
		where = append(where, "res.trajet_id=?")
		args = append(args, f.TrajetID)
	}
	if f.Status != "" {
		where = append(where, "res.statut=?")
		args = append(args, string(f.Status))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM reservations res
		JOIN trajets t ON t.id=res.trajet_id WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+prefixedReservationColumns("res")+` FROM reservations res
		JOIN trajets t ON t.id=res.trajet_id WHERE `+cond+`
		ORDER BY res.date_reservation DESC, res.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectReservations(rows)
	return out, total, err
}

func (r ReservationRepository) ListAll(p domain.Pagination) ([]models.Reservation, int, error) {
	p.Normalize()

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM reservations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db().Query(`SELECT `+reservationColumns+` FROM reservations
		ORDER BY date_reservation DESC, id DESC LIMIT ? OFFSET ?`, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectReservations(rows)
	return out, total, err
}

func prefixedReservationColumns(alias string) string {
	cols := strings.Split(reservationColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func collectReservations(rows *sql.Rows) ([]models.Reservation, error) {
	out := []models.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(row rowScanner) (models.Reservation, error) {
	var (
		res       models.Reservation
		accountID sql.NullInt64
		status    string
		method    string
	)
	err := row.Scan(
		&res.ID, &res.TrajetID, &accountID, &res.Reference,
		&res.FirstName, &res.LastName, &res.Phone, &res.Seats, &status,
		&res.Refundable, &res.Supplement, &res.TotalAmount, &method, &res.ReservedAt,
	)
	if err != nil {
		return models.Reservation{}, err
	}
	if accountID.Valid {
		res.AccountID = &accountID.Int64
	}
	res.Status = models.ReservationStatus(status)
	res.Method = models.PaymentMethod(method)
	return res, nil
}

func nullAccount(id *int64) any {
	if id == nil || *id <= 0 {
		return nil
	}
	return *id
}
