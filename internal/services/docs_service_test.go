package services

import (
	"strings"
	"testing"
	"time"
)

func TestDocsServiceGenerateTicket(t *testing.T) {
	loader := func(id int64) (ticketDocData, error) {
		return ticketDocData{
			ReservationID: id,
			Reference:     "3f1c7a2e-ref",
			Passenger:     "Awa Traoré",
			Phone:         "+22376123456",
			Seats:         2,
			Status:        "confirmed",
			RouteFrom:     "Bamako",
			RouteTo:       "Sikasso",
			DepartureAt:   time.Now().Add(24 * time.Hour),
			VehicleType:   "bus",
			Supplement:    450,
			Total:         3450,
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateTicket(1)
	if err != nil {
		t.Fatalf("GenerateTicket returned error: %v", err)
	}
	if len(pdf) == 0 || filename == "" {
		t.Fatalf("GenerateTicket returned empty data")
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceRequiresLoader(t *testing.T) {
	svc := DocsService{}
	if _, _, err := svc.GenerateTicket(1); err == nil {
		t.Fatal("expected error without loader")
	}
}
