package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"
	"billettigue/internal/domain/models"
	"billettigue/internal/repositories"
	"billettigue/internal/utils"
)

// SweepService reconciles trajet status with wall-clock time. Running
// it twice with no new expirations is a no-op.
type SweepService struct {
	TrajetRepo repositories.TrajetRepository
	DB         *sql.DB
	RequestID  string
}

func (s SweepService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s SweepService) trajets() repositories.TrajetRepository {
	if s.TrajetRepo.DB != nil {
		return s.TrajetRepo
	}
	return repositories.TrajetRepository{DB: s.db()}
}

type SweepResult struct {
	Count int     `json:"count"`
	IDs   []int64 `json:"ids"`
}

// SweepExpiredTrajets expires every active trajet past departure in one
// transaction; any failure aborts the whole sweep.
func (s SweepService) SweepExpiredTrajets(now time.Time) (SweepResult, error) {
	tx, err := s.db().Begin()
	if err != nil {
		return SweepResult{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids, err := s.trajets().ExpireDue(tx, now)
	if err != nil {
		return SweepResult{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return SweepResult{}, domain.InternalError{Err: err}
	}
	committed = true

	if len(ids) > 0 {
		utils.LogEvent(s.RequestID, "sweep", "expire_trajets",
			fmt.Sprintf("expired=%d ids=%v", len(ids), ids))
	}
	return SweepResult{Count: len(ids), IDs: ids}, nil
}

// CheckAndUpdateTrajet applies the same logic to one trajet, used on
// read paths to self-heal a stale status before returning it.
func (s SweepService) CheckAndUpdateTrajet(id int64, now time.Time) (models.Trajet, error) {
	tx, err := s.db().Begin()
	if err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	trajet, err := s.trajets().LockForBooking(tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trajet{}, domain.NotFoundError{Resource: "trajet", Err: err}
		}
		return models.Trajet{}, domain.InternalError{Err: err}
	}

	if trajet.Status == models.TrajetActive && trajet.DepartureAt.Before(now) {
		expired, err := s.trajets().ExpireOne(tx, id, now)
		if err != nil {
			return models.Trajet{}, domain.InternalError{Err: err}
		}
		if expired {
			trajet.Status = models.TrajetExpired
			utils.LogEvent(s.RequestID, "sweep", "expire_trajet", fmt.Sprintf("trajet_id=%d", id))
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Trajet{}, domain.InternalError{Err: err}
	}
	committed = true
	return trajet, nil
}
