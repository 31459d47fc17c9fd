package models

import "time"

// Payment mirrors the paiements table; at most one row per reservation.
// Only written for prepaid reservations and read by revenue reports.
type Payment struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	Amount        int64     `json:"montant"`
	Status        string    `json:"statut"`
	PaidAt        time.Time `json:"date_paiement"`
}
