package services

import (
	"database/sql"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"
	"billettigue/internal/repositories"
)

type StatsService struct {
	StatsRepo   repositories.StatsRepository
	PaymentRepo repositories.PaymentRepository
	DB          *sql.DB
	RequestID   string
}

func (s StatsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s StatsService) stats() repositories.StatsRepository {
	if s.StatsRepo.DB != nil {
		return s.StatsRepo
	}
	return repositories.StatsRepository{DB: s.db()}
}

func (s StatsService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.db()}
}

// AdminStats aggregates marketplace activity for the admin dashboard.
type AdminStats struct {
	TrajetsByStatus      map[string]int `json:"trajets_by_status"`
	ReservationsByStatus map[string]int `json:"reservations_by_status"`
	SeatsSold            int            `json:"seats_sold"`
	PaidRevenue          int64          `json:"paid_revenue"`
}

func (s StatsService) Overview() (AdminStats, error) {
	trajets, err := s.stats().CountByStatus("trajets")
	if err != nil {
		return AdminStats{}, domain.InternalError{Err: err}
	}
	reservations, err := s.stats().CountByStatus("reservations")
	if err != nil {
		return AdminStats{}, domain.InternalError{Err: err}
	}
	seats, err := s.stats().SeatsSold()
	if err != nil {
		return AdminStats{}, domain.InternalError{Err: err}
	}
	revenue, err := s.payments().PaidRevenue()
	if err != nil {
		return AdminStats{}, domain.InternalError{Err: err}
	}
	return AdminStats{
		TrajetsByStatus:      trajets,
		ReservationsByStatus: reservations,
		SeatsSold:            seats,
		PaidRevenue:          revenue,
	}, nil
}
