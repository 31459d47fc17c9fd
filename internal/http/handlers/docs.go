package handlers

import (
	"net/http"

	"billettigue/internal/http/middleware"
	"billettigue/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/reservations/:id/ticket (owner, carrier or admin)
func GetReservationTicket(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc := middleware.GetRequestContext(c)

	res, trajet, err := reservationService(c).GetAuthorized(id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	docs := services.DocsService{
		RequestID: middleware.GetRequestID(c),
		Loader:    services.TicketDataFromReservation(res, trajet),
	}
	pdf, filename, err := docs.GenerateTicket(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
