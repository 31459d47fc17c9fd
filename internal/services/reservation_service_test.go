package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"billettigue/internal/domain"
	"billettigue/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var trajetTestColumns = []string{
	"id", "transporteur_id", "ville_depart", "ville_arrivee", "date_depart",
	"prix_unitaire", "nombre_places", "places_disponibles", "type_vehicule", "statut",
	"accepte_colis", "poids_max_colis", "prix_colis",
	"point_depart", "point_arrivee", "conditions",
	"created_at", "updated_at",
}

func trajetRow(id int64, available int, status string, unitPrice int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(trajetTestColumns).AddRow(
		id, int64(7), "Bamako", "Sikasso", now.Add(24*time.Hour),
		unitPrice, 50, available, "bus", status,
		false, -1.0, int64(-1),
		"Gare de Sogoniko", "Gare centrale", "",
		now, now,
	)
}

func bookingInput(trajetID int64, seats int, method string) CreateReservationInput {
	return CreateReservationInput{
		TrajetID:   trajetID,
		FirstName:  "Awa",
		LastName:   "Traoré",
		Phone:      "+22376123456",
		Seats:      seats,
		Refundable: false,
		Method:     method,
	}
}

func TestCreateReservationDecrementsSeatsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 10, "active", 5000))
	mock.ExpectExec("UPDATE trajets").
		WithArgs(2, int64(1), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	res, err := svc.Create(bookingInput(1, 2, "cash"))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if res.ID != 42 {
		t.Fatalf("expected reservation id 42, got %d", res.ID)
	}
	if res.Status != models.ReservationPending {
		t.Fatalf("cash booking must start pending, got %s", res.Status)
	}
	if res.TotalAmount != 10000 || res.Supplement != 0 {
		t.Fatalf("unexpected amounts: total=%d supplement=%d", res.TotalAmount, res.Supplement)
	}
	if res.Reference == "" {
		t.Fatal("reservation must carry a reference")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationPrepaidConfirmsAndRecordsPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(3)).
		WillReturnRows(trajetRow(3, 3, "active", 1000))
	mock.ExpectExec("UPDATE trajets").
		WithArgs(3, int64(3), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO paiements").
		WithArgs(int64(9), int64(3450)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	in := bookingInput(3, 3, "orange_money")
	in.Refundable = true

	svc := ReservationService{DB: db}
	res, err := svc.Create(in)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if res.Status != models.ReservationConfirmed {
		t.Fatalf("prepaid booking must be confirmed, got %s", res.Status)
	}
	if res.Supplement != 450 || res.TotalAmount != 3450 {
		t.Fatalf("unexpected amounts: total=%d supplement=%d", res.TotalAmount, res.Supplement)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationLastSeatReachesZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(5)).
		WillReturnRows(trajetRow(5, 4, "active", 2500))
	mock.ExpectExec("UPDATE trajets").
		WithArgs(4, int64(5), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	if _, err := svc.Create(bookingInput(5, 4, "cash")); err != nil {
		t.Fatalf("booking the last seats must succeed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationFullTrajet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(2)).
		WillReturnRows(trajetRow(2, 0, "active", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Create(bookingInput(2, 1, "cash"))
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fully booked") {
		t.Fatalf("full trajet message expected, got %q", err.Error())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationTooManySeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(2)).
		WillReturnRows(trajetRow(2, 3, "active", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Create(bookingInput(2, 5, "cash"))
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	for _, want := range []string{"3", "5"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("partial-capacity message must carry counts, got %q", err.Error())
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationInactiveTrajetHidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(8)).
		WillReturnRows(trajetRow(8, 10, "cancelled", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Create(bookingInput(8, 1, "cash"))
	if !domain.IsNotFound(err) {
		t.Fatalf("non-active trajet must look absent, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationInsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 10, "active", 5000))
	mock.ExpectExec("UPDATE trajets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(fmt.Errorf("duplicate reference"))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	if _, err := svc.Create(bookingInput(1, 2, "cash")); err == nil {
		t.Fatal("expected error when the insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationRejectsBadInput(t *testing.T) {
	svc := ReservationService{}

	cases := []struct {
		name string
		mut  func(*CreateReservationInput)
	}{
		{"zero seats", func(in *CreateReservationInput) { in.Seats = 0 }},
		{"missing first name", func(in *CreateReservationInput) { in.FirstName = "   " }},
		{"bad phone", func(in *CreateReservationInput) { in.Phone = "12345" }},
		{"bad method", func(in *CreateReservationInput) { in.Method = "cheque" }},
	}
	for _, tc := range cases {
		in := bookingInput(1, 2, "cash")
		tc.mut(&in)
		if _, err := svc.Create(in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func reservationTestRows(id, trajetID int64, seats int, status string) *sqlmock.Rows {
	cols := []string{
		"id", "trajet_id", "compte_id", "reference",
		"prenom_passager", "nom_passager", "telephone_passager", "nombre_places", "statut",
		"option_remboursable", "montant_supplement", "montant_total", "methode_paiement", "date_reservation",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, trajetID, int64(33), "ref-0001",
		"Awa", "Traoré", "+22376123456", seats, status,
		false, int64(0), int64(10000), "cash", time.Now(),
	)
}

func TestCancelReservationRestoresSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id=\\? FOR UPDATE").WithArgs(int64(42)).
		WillReturnRows(reservationTestRows(42, 1, 2, "confirmed"))
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 8, "active", 5000))
	mock.ExpectExec("UPDATE reservations SET statut=\\?").
		WithArgs("cancelled", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("LEAST\\(places_disponibles \\+ \\?, nombre_places\\)").
		WithArgs(2, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	rc := domain.RequestContext{AccountID: 33, Role: models.RoleUser}
	res, err := svc.Cancel(42, rc)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if res.Status != models.ReservationCancelled {
		t.Fatalf("expected cancelled, got %s", res.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelReservationAlreadyCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id=\\? FOR UPDATE").WithArgs(int64(42)).
		WillReturnRows(reservationTestRows(42, 1, 2, "cancelled"))
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 8, "active", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	rc := domain.RequestContext{AccountID: 33, Role: models.RoleUser}
	if _, err := svc.Cancel(42, rc); !domain.IsConflict(err) {
		t.Fatalf("double cancel must conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelReservationStrangerForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id=\\? FOR UPDATE").WithArgs(int64(42)).
		WillReturnRows(reservationTestRows(42, 1, 2, "confirmed"))
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 8, "active", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	rc := domain.RequestContext{AccountID: 99, Role: models.RoleUser}
	if _, err := svc.Cancel(42, rc); !domain.IsForbidden(err) {
		t.Fatalf("stranger must be forbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusConfirmsPendingReservation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id=\\? FOR UPDATE").WithArgs(int64(42)).
		WillReturnRows(reservationTestRows(42, 1, 2, "pending"))
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 8, "active", 5000))
	mock.ExpectExec("UPDATE reservations SET statut=\\?").
		WithArgs("confirmed", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	res, err := svc.UpdateStatus(42, 7, "confirmed")
	if err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if res.Status != models.ReservationConfirmed {
		t.Fatalf("expected confirmed, got %s", res.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id=\\? FOR UPDATE").WithArgs(int64(42)).
		WillReturnRows(reservationTestRows(42, 1, 2, "pending"))
	mock.ExpectQuery("FROM trajets WHERE id=\\? FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(trajetRow(1, 8, "active", 5000))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	if _, err := svc.UpdateStatus(42, 7, "completed"); !domain.IsConflict(err) {
		t.Fatalf("pending to completed must conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
