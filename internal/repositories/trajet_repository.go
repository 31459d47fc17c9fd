package repositories

import (
	"database/sql"
	"strings"
	"time"

	intconfig "billettigue/internal/config"
	intdb "billettigue/internal/db"
	"billettigue/internal/domain"
	"billettigue/internal/domain/models"
)

const trajetColumns = `id, transporteur_id, ville_depart, ville_arrivee, date_depart,
	prix_unitaire, nombre_places, places_disponibles, type_vehicule, statut,
	accepte_colis, COALESCE(poids_max_colis, -1), COALESCE(prix_colis, -1),
	COALESCE(point_depart, ''), COALESCE(point_arrivee, ''), COALESCE(conditions, ''),
	created_at, updated_at`

type TrajetRepository struct {
	DB *sql.DB
}

func (r TrajetRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// TrajetFilter narrows listings; zero values mean "no constraint".
type TrajetFilter struct {
	DepartureCity  string
	ArrivalCity    string
	Date           *time.Time
	Status         models.TrajetStatus
	VehicleType    models.VehicleType
	AcceptsParcels *bool
	CarrierID      int64
}

func (r TrajetRepository) Create(t models.Trajet) (models.Trajet, error) {
	res, err := r.db().Exec(`
		INSERT INTO trajets (transporteur_id, ville_depart, ville_arrivee, date_depart,
			prix_unitaire, nombre_places, places_disponibles, type_vehicule, statut,
			accepte_colis, poids_max_colis, prix_colis, point_depart, point_arrivee, conditions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CarrierID, t.DepartureCity, t.ArrivalCity, t.DepartureAt,
		t.UnitPrice, t.TotalSeats, t.AvailableSeats, string(t.VehicleType), string(t.Status),
		t.AcceptsParcels, nullFloat(t.MaxParcelKg), nullInt(t.ParcelPrice),
		t.DeparturePoint, t.ArrivalPoint, intdb.NullIfEmpty(t.Conditions),
	)
	if err != nil {
		return models.Trajet{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Trajet{}, err
	}
	t.ID = id
	return t, nil
}

func (r TrajetRepository) GetByID(id int64) (models.Trajet, error) {
	row := r.db().QueryRow(`SELECT `+trajetColumns+` FROM trajets WHERE id=? LIMIT 1`, id)
	return scanTrajet(row)
}

// List returns matching trajets ordered by departure ascending, plus the
// total match count for pagination. Cancelled rows are excluded unless
// the filter names a status explicitly.
func (r TrajetRepository) List(f TrajetFilter, p domain.Pagination) ([]models.Trajet, int, error) {
	p.Normalize()

	where := []string{"1=1"}
	args := []any{}

	if f.Status != "" {
		where = append(where, "statut=?")
		args = append(args, string(f.Status))
	} else {
		where = append(where, "statut<>?")
		args = append(args, string(models.TrajetCancelled))
	}
	if f.DepartureCity != "" {
		where = append(where, "LOWER(ville_depart)=?")
		args = append(args, strings.ToLower(f.DepartureCity))
	}
	if f.ArrivalCity != "" {
		where = append(where, "LOWER(ville_arrivee)=?")
		args = append(args, strings.ToLower(f.ArrivalCity))
	}
	if f.Date != nil {
		where = append(where, "DATE(date_depart)=DATE(?)")
		args = append(args, *f.Date)
	}
	if f.VehicleType != "" {
		where = append(where, "type_vehicule=?")
		args = append(args, string(f.VehicleType))
	}
	if f.AcceptsParcels != nil {
		where = append(where, "accepte_colis=?")
		args = append(args, *f.AcceptsParcels)
	}
	if f.CarrierID > 0 {
		where = append(where, "transporteur_id=?")
		args = append(args, f.CarrierID)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM trajets WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+trajetColumns+` FROM trajets WHERE `+cond+`
		ORDER BY date_depart ASC, id ASC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Trajet{}
	for rows.Next() {
		t, err := scanTrajet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// TrajetPatch supports PATCH-style updates based on key presence.
type TrajetPatch struct {
	DepartureCity  *string
	ArrivalCity    *string
	DepartureAt    *time.Time
	UnitPrice      *int64
	VehicleType    *models.VehicleType
	AcceptsParcels *bool
	MaxParcelKg    *float64
	ParcelPrice    *int64
	DeparturePoint *string
	ArrivalPoint   *string
	Conditions     *string
}

func (r TrajetRepository) Update(id int64, patch TrajetPatch) error {
	sets := []string{}
	args := []any{}

	if patch.DepartureCity != nil {
		sets = append(sets, "ville_depart=?")
		args = append(args, strings.TrimSpace(*patch.DepartureCity))
	}
	if patch.ArrivalCity != nil {
		sets = append(sets, "ville_arrivee=?")
		args = append(args, strings.TrimSpace(*patch.ArrivalCity))
	}
	if patch.DepartureAt != nil {
		sets = append(sets, "date_depart=?")
		args = append(args, *patch.DepartureAt)
	}
	if patch.UnitPrice != nil {
		sets = append(sets, "prix_unitaire=?")
		args = append(args, *patch.UnitPrice)
	}
	if patch.VehicleType != nil {
		sets = append(sets, "type_vehicule=?")
		args = append(args, string(*patch.VehicleType))
	}
	if patch.AcceptsParcels != nil {
		sets = append(sets, "accepte_colis=?")
		args = append(args, *patch.AcceptsParcels)
	}
	if patch.MaxParcelKg != nil {
		sets = append(sets, "poids_max_colis=?")
		args = append(args, *patch.MaxParcelKg)
	}
	if patch.ParcelPrice != nil {
		sets = append(sets, "prix_colis=?")
		args = append(args, *patch.ParcelPrice)
	}
	if patch.DeparturePoint != nil {
		sets = append(sets, "point_depart=?")
		args = append(args, strings.TrimSpace(*patch.DeparturePoint))
	}
	if patch.ArrivalPoint != nil {
		sets = append(sets, "point_arrivee=?")
		args = append(args, strings.TrimSpace(*patch.ArrivalPoint))
	}
	if patch.Conditions != nil {
		sets = append(sets, "conditions=?")
		args = append(args, intdb.NullIfEmpty(strings.TrimSpace(*patch.Conditions)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE trajets SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

func (r TrajetRepository) UpdateStatus(id int64, status models.TrajetStatus) error {
	_, err := r.db().Exec(`UPDATE trajets SET statut=?, updated_at=NOW() WHERE id=?`,
		string(status), id)
	return err
}

// LockForBooking reads a trajet row under FOR UPDATE so the capacity
// check and the seat decrement observe the same snapshot.
func (r TrajetRepository) LockForBooking(tx *sql.Tx, id int64) (models.Trajet, error) {
	row := tx.QueryRow(`SELECT `+trajetColumns+` FROM trajets WHERE id=? FOR UPDATE`, id)
	return scanTrajet(row)
}

// DecrementSeats applies the conditional decrement inside tx. The
// places_disponibles >= ? guard makes oversell impossible even without
// the row lock; applied is false when the guard rejects the update.
func (r TrajetRepository) DecrementSeats(tx *sql.Tx, id int64, seats int) (bool, error) {
	res, err := tx.Exec(`UPDATE trajets
		SET places_disponibles = places_disponibles - ?, updated_at=NOW()
		WHERE id=? AND places_disponibles >= ?`, seats, id, seats)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IncrementSeats restores capacity, capped at nombre_places.
func (r TrajetRepository) IncrementSeats(tx *sql.Tx, id int64, seats int) error {
	_, err := tx.Exec(`UPDATE trajets
		SET places_disponibles = LEAST(places_disponibles + ?, nombre_places), updated_at=NOW()
		WHERE id=?`, seats, id)
	return err
}

// ExpireDue flips every locked active trajet past departure to expired
// and returns the ids touched. Runs inside the caller's transaction so
// a failure aborts the whole sweep.
func (r TrajetRepository) ExpireDue(tx *sql.Tx, now time.Time) ([]int64, error) {
	rows, err := tx.Query(`SELECT id FROM trajets
		WHERE statut=? AND date_depart < ? FOR UPDATE`,
		string(models.TrajetActive), now)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return ids, nil
	}

	_, err = tx.Exec(`UPDATE trajets SET statut=?, updated_at=NOW()
		WHERE statut=? AND date_depart < ?`,
		string(models.TrajetExpired), string(models.TrajetActive), now)
	return ids, err
}

// ExpireOne lazily expires a single trajet whose departure has passed.
// Used on read paths to self-heal a stale status.
func (r TrajetRepository) ExpireOne(tx *sql.Tx, id int64, now time.Time) (bool, error) {
	res, err := tx.Exec(`UPDATE trajets SET statut=?, updated_at=NOW()
		WHERE id=? AND statut=? AND date_depart < ?`,
		string(models.TrajetExpired), id, string(models.TrajetActive), now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrajet(row rowScanner) (models.Trajet, error) {
	var (
		t           models.Trajet
		vehicle     string
		status      string
		maxParcelKg float64
		parcelPrice int64
	)
	err := row.Scan(
		&t.ID, &t.CarrierID, &t.DepartureCity, &t.ArrivalCity, &t.DepartureAt,
		&t.UnitPrice, &t.TotalSeats, &t.AvailableSeats, &vehicle, &status,
		&t.AcceptsParcels, &maxParcelKg, &parcelPrice,
		&t.DeparturePoint, &t.ArrivalPoint, &t.Conditions,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Trajet{}, err
	}
	t.VehicleType = models.VehicleType(vehicle)
	t.Status = models.TrajetStatus(status)
	if maxParcelKg >= 0 {
		t.MaxParcelKg = &maxParcelKg
	}
	if parcelPrice >= 0 {
		t.ParcelPrice = &parcelPrice
	}
	return t, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
