package services

import (
	"testing"
	"time"

	"billettigue/internal/domain"
	"billettigue/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func trajetInput(carrierID int64) CreateTrajetInput {
	return CreateTrajetInput{
		CarrierID:     carrierID,
		DepartureCity: "Bamako",
		ArrivalCity:   "Ségou",
		DepartureAt:   time.Now().Add(48 * time.Hour),
		UnitPrice:     4500,
		TotalSeats:    30,
		VehicleType:   "bus",
	}
}

func TestCreateTrajetOpensFullAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trajets").
		WillReturnResult(sqlmock.NewResult(17, 1))

	svc := TrajetService{DB: db}
	trajet, err := svc.Create(trajetInput(7))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if trajet.ID != 17 {
		t.Fatalf("expected id 17, got %d", trajet.ID)
	}
	if trajet.Status != models.TrajetActive {
		t.Fatalf("new trajet must be active, got %s", trajet.Status)
	}
	if trajet.AvailableSeats != trajet.TotalSeats {
		t.Fatalf("availability must open at capacity: %d/%d", trajet.AvailableSeats, trajet.TotalSeats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTrajetValidation(t *testing.T) {
	svc := TrajetService{}

	cases := []struct {
		name string
		mut  func(*CreateTrajetInput)
	}{
		{"past departure", func(in *CreateTrajetInput) { in.DepartureAt = time.Now().Add(-time.Hour) }},
		{"negative price", func(in *CreateTrajetInput) { in.UnitPrice = -1 }},
		{"zero seats", func(in *CreateTrajetInput) { in.TotalSeats = 0 }},
		{"too many seats", func(in *CreateTrajetInput) { in.TotalSeats = 51 }},
		{"missing city", func(in *CreateTrajetInput) { in.ArrivalCity = " " }},
		{"bad vehicle", func(in *CreateTrajetInput) { in.VehicleType = "pirogue" }},
	}
	for _, tc := range cases {
		in := trajetInput(7)
		tc.mut(&in)
		if _, err := svc.Create(in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestUpdateTrajetForeignCarrierForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trajets WHERE id=\\? LIMIT 1").WithArgs(int64(17)).
		WillReturnRows(trajetRow(17, 30, "active", 4500))

	svc := TrajetService{DB: db}
	city := "Mopti"
	_, err = svc.Update(17, 999, UpdateTrajetInput{ArrivalCity: &city})
	if !domain.IsForbidden(err) {
		t.Fatalf("foreign carrier must be forbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrajetUnderwayConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trajets WHERE id=\\? LIMIT 1").WithArgs(int64(17)).
		WillReturnRows(trajetRow(17, 30, "in_progress", 4500))

	svc := TrajetService{DB: db}
	city := "Mopti"
	_, err = svc.Update(17, 7, UpdateTrajetInput{ArrivalCity: &city})
	if !domain.IsConflict(err) {
		t.Fatalf("trajet underway must reject edits, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTrajetLogicalDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trajets WHERE id=\\? LIMIT 1").WithArgs(int64(17)).
		WillReturnRows(trajetRow(17, 30, "active", 4500))
	mock.ExpectExec("UPDATE trajets SET statut=\\?").
		WithArgs("cancelled", int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := TrajetService{DB: db}
	trajet, err := svc.Cancel(17, 7)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if trajet.Status != models.TrajetCancelled {
		t.Fatalf("expected cancelled, got %s", trajet.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTrajetStatusIllegalMove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM trajets WHERE id=\\? LIMIT 1").WithArgs(int64(17)).
		WillReturnRows(trajetRow(17, 30, "expired", 4500))

	svc := TrajetService{DB: db}
	if _, err := svc.UpdateStatus(17, 7, "active"); !domain.IsConflict(err) {
		t.Fatalf("expired trajets must never reactivate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
