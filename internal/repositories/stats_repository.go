package repositories

import (
	"database/sql"

	intconfig "billettigue/internal/config"
)

type StatsRepository struct {
	DB *sql.DB
}

func (r StatsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CountByStatus aggregates rows of a status-bearing table. Only the
// two ledger tables are accepted; the name is interpolated, never user
// input.
func (r StatsRepository) CountByStatus(table string) (map[string]int, error) {
	if table != "trajets" && table != "reservations" {
		return nil, sql.ErrNoRows
	}
	rows, err := r.db().Query(`SELECT statut, COUNT(*) FROM ` + table + ` GROUP BY statut`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// SeatsSold sums seats across non-cancelled reservations.
func (r StatsRepository) SeatsSold() (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(nombre_places), 0) FROM reservations
		WHERE statut <> 'cancelled'`).Scan(&n)
	return n, err
}
