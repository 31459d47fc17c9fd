package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"
	"billettigue/internal/domain/models"
	"billettigue/internal/repositories"
	"billettigue/internal/utils"

	"github.com/google/uuid"
)

// ReservationService owns the booking ledger: every seat decrement
// happens in the same transaction as the reservation insert, and every
// capacity check reads the trajet row under lock. Seat counts are never
// cached in-process.
type ReservationService struct {
	TrajetRepo      repositories.TrajetRepository
	ReservationRepo repositories.ReservationRepository
	PaymentRepo     repositories.PaymentRepository
	DB              *sql.DB
	RequestID       string
}

func (s ReservationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReservationService) trajets() repositories.TrajetRepository {
	if s.TrajetRepo.DB != nil {
		return s.TrajetRepo
	}
	return repositories.TrajetRepository{DB: s.db()}
}

func (s ReservationService) reservations() repositories.ReservationRepository {
	if s.ReservationRepo.DB != nil {
		return s.ReservationRepo
	}
	return repositories.ReservationRepository{DB: s.db()}
}

func (s ReservationService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.db()}
}

// CreateReservationInput covers guest and authenticated bookings alike;
// AccountID is nil for guests.
type CreateReservationInput struct {
	TrajetID   int64
	AccountID  *int64
	FirstName  string
	LastName   string
	Phone      string
	Seats      int
	Refundable bool
	Method     string
}

func (in *CreateReservationInput) validate() error {
	in.FirstName = utils.NormalizeSpace(in.FirstName)
	in.LastName = utils.NormalizeSpace(in.LastName)
	in.Phone = utils.NormalizePhone(in.Phone)

	if in.TrajetID <= 0 {
		return domain.ValidationError{Field: "trajet_id", Msg: "invalid id"}
	}
	if in.FirstName == "" {
		return domain.ValidationError{Field: "prenom_passager", Msg: "required"}
	}
	if in.LastName == "" {
		return domain.ValidationError{Field: "nom_passager", Msg: "required"}
	}
	if !utils.IsValidPhone(in.Phone) {
		return domain.ValidationError{Field: "telephone_passager", Msg: "invalid mobile number"}
	}
	if in.Seats < 1 {
		return domain.ValidationError{Field: "nombre_places", Msg: "at least 1 seat"}
	}
	return nil
}

// Create books seats on a trajet. The capacity check, the seat
// decrement and the reservation insert run in one transaction with the
// trajet row locked, so two racing bookings can never oversell.
func (s ReservationService) Create(in CreateReservationInput) (models.Reservation, error) {
	if err := in.validate(); err != nil {
		return models.Reservation{}, err
	}
	method, err := models.ParsePaymentMethod(in.Method)
	if err != nil {
		return models.Reservation{}, domain.ValidationError{Field: "methode_paiement", Err: err}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	trajet, err := s.trajets().LockForBooking(tx, in.TrajetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, domain.NotFoundError{Resource: "trajet", Err: err}
		}
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if trajet.Status != models.TrajetActive {
		return models.Reservation{}, domain.NotFoundError{Resource: "trajet"}
	}
	if trajet.AvailableSeats == 0 || in.Seats > trajet.AvailableSeats {
		return models.Reservation{}, domain.CapacityError{
			Requested: in.Seats,
			Available: trajet.AvailableSeats,
		}
	}

	quote := utils.ComputePricing(trajet.UnitPrice, in.Seats, in.Refundable)

	applied, err := s.trajets().DecrementSeats(tx, trajet.ID, in.Seats)
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if !applied {
		// The conditional update is the last line of defense; with the
		// row lock held it only fires on a concurrent schema anomaly.
		return models.Reservation{}, domain.CapacityError{
			Requested: in.Seats,
			Available: trajet.AvailableSeats,
		}
	}

	res := models.Reservation{
		TrajetID:    trajet.ID,
		AccountID:   in.AccountID,
		Reference:   uuid.NewString(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Seats:       in.Seats,
		Status:      method.InitialStatus(),
		Refundable:  in.Refundable,
		Supplement:  quote.Supplement,
		TotalAmount: quote.Total,
		Method:      method,
		ReservedAt:  utils.NowUTC(),
	}

	id, err := s.reservations().InsertTx(tx, res)
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	res.ID = id

	if method.Prepaid() {
		if _, err := s.payments().InsertTx(tx, id, quote.Total); err != nil {
			return models.Reservation{}, domain.InternalError{Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed = true

	utils.LogEvent(s.RequestID, "reservation", "create",
		fmt.Sprintf("reservation_id=%d trajet_id=%d seats=%d total=%s",
			res.ID, trajet.ID, res.Seats, utils.FormatFCFA(res.TotalAmount)))
	return res, nil
}

// GetAuthorized returns a reservation if the caller owns it, owns its
// trajet, or is an admin.
func (s ReservationService) GetAuthorized(id int64, rc domain.RequestContext) (models.Reservation, models.Trajet, error) {
	res, err := s.reservations().GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, models.Trajet{}, domain.NotFoundError{Resource: "reservation", Err: err}
		}
		return models.Reservation{}, models.Trajet{}, domain.InternalError{Err: err}
	}
	trajet, err := s.trajets().GetByID(res.TrajetID)
	if err != nil {
		return models.Reservation{}, models.Trajet{}, domain.InternalError{Err: err}
	}
	if !s.mayAccess(res, trajet, rc) {
		return models.Reservation{}, models.Trajet{}, domain.ForbiddenError{Resource: "reservation"}
	}
	return res, trajet, nil
}

func (s ReservationService) mayAccess(res models.Reservation, trajet models.Trajet, rc domain.RequestContext) bool {
	if rc.Role == models.RoleAdmin {
		return true
	}
	if res.AccountID != nil && int64(rc.AccountID) == *res.AccountID {
		return true
	}
	return rc.CarrierID > 0 && int64(rc.CarrierID) == trajet.CarrierID
}

func (s ReservationService) ListForAccount(accountID int64, p domain.Pagination) ([]models.Reservation, int, error) {
	out, total, err := s.reservations().ListByAccount(accountID, p)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

// ListForTrajet is carrier-scoped: the trajet must belong to the caller.
func (s ReservationService) ListForTrajet(trajetID, carrierID int64) ([]models.Reservation, error) {
	trajet, err := s.trajets().GetByID(trajetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "trajet", Err: err}
		}
		return nil, domain.InternalError{Err: err}
	}
	if trajet.CarrierID != carrierID {
		return nil, domain.ForbiddenError{Resource: "trajet"}
	}
	out, err := s.reservations().ListByTrajet(trajetID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s ReservationService) ListForCarrier(carrierID int64, f repositories.CarrierFilter, p domain.Pagination) ([]models.Reservation, int, error) {
	out, total, err := s.reservations().ListByCarrier(carrierID, f, p)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

func (s ReservationService) ListAll(p domain.Pagination) ([]models.Reservation, int, error) {
	out, total, err := s.reservations().ListAll(p)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}

// Cancel flips a reservation to cancelled and restores the trajet's
// seats in the same transaction. Allowed for the reservation's owner,
// the trajet's carrier, or an admin.
func (s ReservationService) Cancel(id int64, rc domain.RequestContext) (models.Reservation, error) {
	tx, err := s.db().Begin()
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations().LockByID(tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, domain.NotFoundError{Resource: "reservation", Err: err}
		}
		return models.Reservation{}, domain.InternalError{Err: err}
	}

	trajet, err := s.trajets().LockForBooking(tx, res.TrajetID)
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if !s.mayAccess(res, trajet, rc) {
		return models.Reservation{}, domain.ForbiddenError{Resource: "reservation"}
	}
	if res.Status == models.ReservationCancelled {
		return models.Reservation{}, domain.ConflictError{Resource: "reservation", Msg: "already cancelled"}
	}
	if !models.CanTransitionReservation(res.Status, models.ReservationCancelled) {
		return models.Reservation{}, domain.ConflictError{
			Resource: "reservation",
			Msg:      fmt.Sprintf("cannot cancel a %s reservation", res.Status),
		}
	}

	if err := s.reservations().UpdateStatusTx(tx, id, models.ReservationCancelled); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if err := s.trajets().IncrementSeats(tx, res.TrajetID, res.Seats); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed = true

	res.Status = models.ReservationCancelled
	utils.LogEvent(s.RequestID, "reservation", "cancel",
		fmt.Sprintf("reservation_id=%d trajet_id=%d seats_restored=%d", res.ID, res.TrajetID, res.Seats))
	return res, nil
}

// UpdateStatus is carrier-only. Moving to cancelled goes through the
// seat-restoring path so capacity accounting stays in one place.
func (s ReservationService) UpdateStatus(id, carrierID int64, newStatus string) (models.Reservation, error) {
	target, err := models.ParseReservationStatus(newStatus)
	if err != nil {
		return models.Reservation{}, domain.ValidationError{Field: "statut", Err: err}
	}
	if target == models.ReservationCancelled {
		return s.Cancel(id, domain.RequestContext{CarrierID: domain.ID(carrierID), Role: models.RoleCarrier})
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations().LockByID(tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, domain.NotFoundError{Resource: "reservation", Err: err}
		}
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	trajet, err := s.trajets().LockForBooking(tx, res.TrajetID)
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if trajet.CarrierID != carrierID {
		return models.Reservation{}, domain.ForbiddenError{Resource: "reservation"}
	}
	if res.Status == target {
		return res, nil
	}
	if !models.CanTransitionReservation(res.Status, target) {
		return models.Reservation{}, domain.ConflictError{
			Resource: "reservation",
			Msg:      fmt.Sprintf("cannot move from %s to %s", res.Status, target),
		}
	}

	if err := s.reservations().UpdateStatusTx(tx, id, target); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	committed = true

	res.Status = target
	utils.LogEvent(s.RequestID, "reservation", "update_status",
		fmt.Sprintf("reservation_id=%d status=%s", res.ID, strings.ToLower(string(target))))
	return res, nil
}
