package models

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

type PaymentMethod string

const (
	PayCash        PaymentMethod = "cash"
	PayOrangeMoney PaymentMethod = "orange_money"
	PayMoovMoney   PaymentMethod = "moov_money"
	PayCard        PaymentMethod = "card"
)

// Reservation books N seats on one trajet for a passenger, who may be
// an account holder or a guest (AccountID nil).
type Reservation struct {
	ID          int64             `json:"id"`
	TrajetID    int64             `json:"trajet_id"`
	AccountID   *int64            `json:"compte_id,omitempty"`
	Reference   string            `json:"reference"`
	FirstName   string            `json:"prenom_passager"`
	LastName    string            `json:"nom_passager"`
	Phone       string            `json:"telephone_passager"`
	Seats       int               `json:"nombre_places"`
	Status      ReservationStatus `json:"statut"`
	Refundable  bool              `json:"option_remboursable"`
	Supplement  int64             `json:"montant_supplement"`
	TotalAmount int64             `json:"montant_total"`
	Method      PaymentMethod     `json:"methode_paiement"`
	ReservedAt  time.Time         `json:"date_reservation"`
}

// ParseReservationStatus accepts only the closed status enum; carrier
// input never reaches the database as a free-form string.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ReservationPending:
		return ReservationPending, nil
	case ReservationConfirmed:
		return ReservationConfirmed, nil
	case ReservationCancelled:
		return ReservationCancelled, nil
	case ReservationCompleted:
		return ReservationCompleted, nil
	default:
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
}

// ParsePaymentMethod accepts only the closed payment enum.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PayCash:
		return PayCash, nil
	case PayOrangeMoney:
		return PayOrangeMoney, nil
	case PayMoovMoney:
		return PayMoovMoney, nil
	case PayCard:
		return PayCard, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Prepaid reports whether the method settles before departure; prepaid
// reservations start confirmed, cash ones start pending.
func (m PaymentMethod) Prepaid() bool {
	return m == PayOrangeMoney || m == PayMoovMoney || m == PayCard
}

// InitialStatus returns the status a fresh reservation starts in.
func (m PaymentMethod) InitialStatus() ReservationStatus {
	if m.Prepaid() {
		return ReservationConfirmed
	}
	return ReservationPending
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

// CanTransitionReservation reports whether from -> to is a legal move.
func CanTransitionReservation(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
