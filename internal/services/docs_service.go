package services

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"time"

	"billettigue/internal/domain/models"
	"billettigue/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// DocsService renders the reservation e-ticket PDF.
type DocsService struct {
	RequestID string
	Loader    func(int64) (ticketDocData, error)
}

type ticketDocData struct {
	ReservationID int64
	Reference     string
	Passenger     string
	Phone         string
	Seats         int
	Status        string
	RouteFrom     string
	RouteTo       string
	DepartureAt   time.Time
	VehicleType   string
	Supplement    int64
	Total         int64
}

// TicketDataFromReservation adapts ledger records for the PDF builder.
func TicketDataFromReservation(res models.Reservation, trajet models.Trajet) func(int64) (ticketDocData, error) {
	return func(int64) (ticketDocData, error) {
		return ticketDocData{
			ReservationID: res.ID,
			Reference:     res.Reference,
			Passenger:     strings.TrimSpace(res.FirstName + " " + res.LastName),
			Phone:         res.Phone,
			Seats:         res.Seats,
			Status:        string(res.Status),
			RouteFrom:     trajet.DepartureCity,
			RouteTo:       trajet.ArrivalCity,
			DepartureAt:   trajet.DepartureAt,
			VehicleType:   string(trajet.VehicleType),
			Supplement:    res.Supplement,
			Total:         res.TotalAmount,
		}, nil
	}
}

func (s DocsService) GenerateTicket(reservationID int64) ([]byte, string, error) {
	if s.Loader == nil {
		return nil, "", fmt.Errorf("docs: no loader configured")
	}
	data, err := s.Loader(reservationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", fmt.Sprintf("reservation_id=%d", reservationID))
	return buildTicketPDF(data)
}

func buildTicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Billet BilletTigue", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BILLET DE VOYAGE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passager     : %s", safe(d.Passenger, "-")),
		fmt.Sprintf("Telephone    : %s", safe(d.Phone, "-")),
		fmt.Sprintf("Trajet       : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Depart       : %s", utils.FormatDateTime(d.DepartureAt)),
		fmt.Sprintf("Places       : %d", d.Seats),
		fmt.Sprintf("Vehicule     : %s", safe(d.VehicleType, "-")),
		fmt.Sprintf("Statut       : %s", safe(d.Status, "-")),
		fmt.Sprintf("Supplement   : %s", utils.FormatFCFA(d.Supplement)),
		fmt.Sprintf("Total        : %s", utils.FormatFCFA(d.Total)),
		fmt.Sprintf("Reference    : %s", safe(d.Reference, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if qr, err := referenceQR(d.Reference); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("reference-qr", opts, bytes.NewReader(qr))
		pdf.ImageOptions("reference-qr", 150, 30, 40, 40, false, opts, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Ce billet est valable pour le trajet indique. Presentez la reference au depart.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BILLET_%d_%s.pdf", d.ReservationID, safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func referenceQR(reference string) ([]byte, error) {
	qr, err := qrcode.New(reference, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(256)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	out := replacer.Replace(strings.TrimSpace(s))
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}
