package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"
	"billettigue/internal/domain/models"
	"billettigue/internal/repositories"
	"billettigue/internal/utils"
)

type TrajetService struct {
	TrajetRepo repositories.TrajetRepository
	Sweep      SweepService
	DB         *sql.DB
	RequestID  string
}

func (s TrajetService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TrajetService) trajets() repositories.TrajetRepository {
	if s.TrajetRepo.DB != nil {
		return s.TrajetRepo
	}
	return repositories.TrajetRepository{DB: s.db()}
}

func (s TrajetService) sweep() SweepService {
	if s.Sweep.DB != nil {
		return s.Sweep
	}
	return SweepService{DB: s.db(), RequestID: s.RequestID}
}

type CreateTrajetInput struct {
	CarrierID      int64
	DepartureCity  string
	ArrivalCity    string
	DepartureAt    time.Time
	UnitPrice      int64
	TotalSeats     int
	VehicleType    string
	AcceptsParcels bool
	MaxParcelKg    *float64
	ParcelPrice    *int64
	DeparturePoint string
	ArrivalPoint   string
	Conditions     string
}

// Create validates a new route and opens it with full availability.
func (s TrajetService) Create(in CreateTrajetInput) (models.Trajet, error) {
	in.DepartureCity = utils.NormalizeSpace(in.DepartureCity)
	in.ArrivalCity = utils.NormalizeSpace(in.ArrivalCity)

	if in.CarrierID <= 0 {
		return models.Trajet{}, domain.ValidationError{Field: "transporteur_id", Msg: "invalid id"}
	}
	if in.DepartureCity == "" {
		return models.Trajet{}, domain.ValidationError{Field: "ville_depart", Msg: "required"}
	}
	if in.ArrivalCity == "" {
		return models.Trajet{}, domain.ValidationError{Field: "ville_arrivee", Msg: "required"}
	}
	if !in.DepartureAt.After(time.Now()) {
		return models.Trajet{}, domain.ValidationError{Field: "date_depart", Msg: "must be in the future"}
	}
	if in.UnitPrice < 0 {
		return models.Trajet{}, domain.ValidationError{Field: "prix_unitaire", Msg: "must be >= 0"}
	}
	if in.TotalSeats < models.MinSeats || in.TotalSeats > models.MaxSeats {
		return models.Trajet{}, domain.ValidationError{
			Field: "nombre_places",
			Msg:   fmt.Sprintf("must be between %d and %d", models.MinSeats, models.MaxSeats),
		}
	}
	vehicle, err := models.ParseVehicleType(in.VehicleType)
	if err != nil {
		return models.Trajet{}, domain.ValidationError{Field: "type_vehicule", Err: err}
	}
	if in.MaxParcelKg != nil && *in.MaxParcelKg <= 0 {
		return models.Trajet{}, domain.ValidationError{Field: "poids_max_colis", Msg: "must be > 0"}
	}
	if in.ParcelPrice != nil && *in.ParcelPrice < 0 {
		return models.Trajet{}, domain.ValidationError{Field: "prix_colis", Msg: "must be >= 0"}
	}

	trajet := models.Trajet{
		CarrierID:      in.CarrierID,
		DepartureCity:  in.DepartureCity,
		ArrivalCity:    in.ArrivalCity,
		DepartureAt:    in.DepartureAt,
		UnitPrice:      in.UnitPrice,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
		VehicleType:    vehicle,
		Status:         models.TrajetActive,
		AcceptsParcels: in.AcceptsParcels,
		MaxParcelKg:    in.MaxParcelKg,
		ParcelPrice:    in.ParcelPrice,
		DeparturePoint: strings.TrimSpace(in.DeparturePoint),
		ArrivalPoint:   strings.TrimSpace(in.ArrivalPoint),
		Conditions:     strings.TrimSpace(in.Conditions),
	}

	created, err := s.trajets().Create(trajet)
	if err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "trajet", "create",
		fmt.Sprintf("trajet_id=%d %s->%s seats=%d", created.ID, created.DepartureCity, created.ArrivalCity, created.TotalSeats))
	return created, nil
}

func (s TrajetService) List(f repositories.TrajetFilter, p domain.Pagination) ([]models.Trajet, int, error) {
	out, total, err := s.trajets().List(f, p)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

// Get returns one trajet, lazily expiring it first when its departure
// has passed so callers never see a stale active status.
func (s TrajetService) Get(id int64) (models.Trajet, error) {
	trajet, err := s.sweep().CheckAndUpdateTrajet(id, time.Now())
	if err != nil {
		return models.Trajet{}, err
	}
	return trajet, nil
}

type UpdateTrajetInput struct {
	DepartureCity  *string
	ArrivalCity    *string
	DepartureAt    *time.Time
	UnitPrice      *int64
	VehicleType    *string
	AcceptsParcels *bool
	MaxParcelKg    *float64
	ParcelPrice    *int64
	DeparturePoint *string
	ArrivalPoint   *string
	Conditions     *string
}

// Update patches an owned trajet. Edits stop once the trajet is in
// progress or completed; pushing the departure of an expired trajet
// forward never resurrects it.
func (s TrajetService) Update(id, carrierID int64, in UpdateTrajetInput) (models.Trajet, error) {
	if _, err := s.ownedEditable(id, carrierID); err != nil {
		return models.Trajet{}, err
	}

	patch := repositories.TrajetPatch{
		DepartureCity:  in.DepartureCity,
		ArrivalCity:    in.ArrivalCity,
		DepartureAt:    in.DepartureAt,
		UnitPrice:      in.UnitPrice,
		AcceptsParcels: in.AcceptsParcels,
		MaxParcelKg:    in.MaxParcelKg,
		ParcelPrice:    in.ParcelPrice,
		DeparturePoint: in.DeparturePoint,
		ArrivalPoint:   in.ArrivalPoint,
		Conditions:     in.Conditions,
	}

	if in.DepartureCity != nil && utils.NormalizeSpace(*in.DepartureCity) == "" {
		return models.Trajet{}, domain.ValidationError{Field: "ville_depart", Msg: "required"}
	}
	if in.ArrivalCity != nil && utils.NormalizeSpace(*in.ArrivalCity) == "" {
		return models.Trajet{}, domain.ValidationError{Field: "ville_arrivee", Msg: "required"}
	}
	if in.DepartureAt != nil && !in.DepartureAt.After(time.Now()) {
		return models.Trajet{}, domain.ValidationError{Field: "date_depart", Msg: "must be in the future"}
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		return models.Trajet{}, domain.ValidationError{Field: "prix_unitaire", Msg: "must be >= 0"}
	}
	if in.VehicleType != nil {
		vehicle, err := models.ParseVehicleType(*in.VehicleType)
		if err != nil {
			return models.Trajet{}, domain.ValidationError{Field: "type_vehicule", Err: err}
		}
		patch.VehicleType = &vehicle
	}

	if err := s.trajets().Update(id, patch); err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}

	updated, err := s.trajets().GetByID(id)
	if err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "trajet", "update", fmt.Sprintf("trajet_id=%d", id))
	return updated, nil
}

// Cancel is the logical delete: status flips to cancelled, the row stays.
func (s TrajetService) Cancel(id, carrierID int64) (models.Trajet, error) {
	return s.changeStatus(id, carrierID, models.TrajetCancelled)
}

// UpdateStatus lets the carrier move an owned trajet through the status
// machine (e.g. active -> in_progress -> completed).
func (s TrajetService) UpdateStatus(id, carrierID int64, newStatus string) (models.Trajet, error) {
	target, err := models.ParseTrajetStatus(newStatus)
	if err != nil {
		return models.Trajet{}, domain.ValidationError{Field: "statut", Err: err}
	}
	return s.changeStatus(id, carrierID, target)
}

func (s TrajetService) changeStatus(id, carrierID int64, target models.TrajetStatus) (models.Trajet, error) {
	trajet, err := s.owned(id, carrierID)
	if err != nil {
		return models.Trajet{}, err
	}

	next, err := models.TransitionTrajet(trajet.Status, target)
	if err != nil {
		return models.Trajet{}, domain.ConflictError{Resource: "trajet", Err: err, Msg: err.Error()}
	}
	if err := s.trajets().UpdateStatus(id, next); err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	trajet.Status = next
	utils.LogEvent(s.RequestID, "trajet", "status",
		fmt.Sprintf("trajet_id=%d status=%s", id, next))
	return trajet, nil
}

func (s TrajetService) owned(id, carrierID int64) (models.Trajet, error) {
	trajet, err := s.trajets().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trajet{}, domain.NotFoundError{Resource: "trajet", Err: err}
		}
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	if trajet.CarrierID != carrierID {
		return models.Trajet{}, domain.ForbiddenError{Resource: "trajet"}
	}
	return trajet, nil
}

func (s TrajetService) ownedEditable(id, carrierID int64) (models.Trajet, error) {
	trajet, err := s.owned(id, carrierID)
	if err != nil {
		return models.Trajet{}, err
	}
	if !trajet.Editable() {
		return models.Trajet{}, domain.ConflictError{
			Resource: "trajet",
			Msg:      fmt.Sprintf("cannot modify a %s trajet", trajet.Status),
		}
	}
	return trajet, nil
}
