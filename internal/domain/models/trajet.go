package models

import (
	"fmt"
	"strings"
	"time"
)

type TrajetStatus string

const (
	TrajetActive     TrajetStatus = "active"
	TrajetCancelled  TrajetStatus = "cancelled"
	TrajetCompleted  TrajetStatus = "completed"
	TrajetInProgress TrajetStatus = "in_progress"
	TrajetExpired    TrajetStatus = "expired"
)

type VehicleType string

const (
	VehicleBus     VehicleType = "bus"
	VehicleMinibus VehicleType = "minibus"
	VehicleCar     VehicleType = "car"
	VehicleTruck   VehicleType = "truck"
)

const (
	MinSeats = 1
	MaxSeats = 50
)

// Trajet is a scheduled, bookable route instance with fixed capacity.
type Trajet struct {
	ID             int64        `json:"id"`
	CarrierID      int64        `json:"transporteur_id"`
	DepartureCity  string       `json:"ville_depart"`
	ArrivalCity    string       `json:"ville_arrivee"`
	DepartureAt    time.Time    `json:"date_depart"`
	UnitPrice      int64        `json:"prix_unitaire"`
	TotalSeats     int          `json:"nombre_places"`
	AvailableSeats int          `json:"places_disponibles"`
	VehicleType    VehicleType  `json:"type_vehicule"`
	Status         TrajetStatus `json:"statut"`
	AcceptsParcels bool         `json:"accepte_colis"`
	MaxParcelKg    *float64     `json:"poids_max_colis,omitempty"`
	ParcelPrice    *int64       `json:"prix_colis,omitempty"`
	DeparturePoint string       `json:"point_depart,omitempty"`
	ArrivalPoint   string       `json:"point_arrivee,omitempty"`
	Conditions     string       `json:"conditions,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Editable reports whether the trajet may still be modified by its
// carrier. Edits stop once the trajet is underway; an expired trajet
// may still be edited but its status never returns to active.
func (t Trajet) Editable() bool {
	return t.Status != TrajetInProgress && t.Status != TrajetCompleted
}

// ParseTrajetStatus accepts only the closed status enum.
func ParseTrajetStatus(s string) (TrajetStatus, error) {
	switch TrajetStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TrajetActive:
		return TrajetActive, nil
	case TrajetCancelled:
		return TrajetCancelled, nil
	case TrajetCompleted:
		return TrajetCompleted, nil
	case TrajetInProgress:
		return TrajetInProgress, nil
	case TrajetExpired:
		return TrajetExpired, nil
	default:
		return "", fmt.Errorf("unknown trajet status %q", s)
	}
}

// ParseVehicleType accepts only the closed vehicle enum.
func ParseVehicleType(s string) (VehicleType, error) {
	switch VehicleType(strings.ToLower(strings.TrimSpace(s))) {
	case VehicleBus:
		return VehicleBus, nil
	case VehicleMinibus:
		return VehicleMinibus, nil
	case VehicleCar:
		return VehicleCar, nil
	case VehicleTruck:
		return VehicleTruck, nil
	default:
		return "", fmt.Errorf("unknown vehicle type %q", s)
	}
}

// trajetTransitions is the single source of truth for status moves.
// Expired and cancelled are terminal: an expired trajet never returns
// to active, even if its departure time is edited forward.
var trajetTransitions = map[TrajetStatus][]TrajetStatus{
	TrajetActive:     {TrajetCancelled, TrajetExpired, TrajetInProgress},
	TrajetInProgress: {TrajetCompleted},
}

// CanTransitionTrajet reports whether from -> to is a legal status move.
func CanTransitionTrajet(from, to TrajetStatus) bool {
	for _, next := range trajetTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTrajet validates a status move, returning the new status.
func TransitionTrajet(from, to TrajetStatus) (TrajetStatus, error) {
	if !CanTransitionTrajet(from, to) {
		return from, fmt.Errorf("cannot move trajet from %s to %s", from, to)
	}
	return to, nil
}
