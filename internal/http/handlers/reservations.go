package handlers

import (
	"net/http"

	"billettigue/internal/domain/models"
	"billettigue/internal/http/middleware"
	"billettigue/internal/repositories"
	"billettigue/internal/services"

	"github.com/gin-gonic/gin"
)

func reservationService(c *gin.Context) services.ReservationService {
	return services.ReservationService{RequestID: middleware.GetRequestID(c)}
}

type createReservationRequest struct {
	TrajetID   int64  `json:"trajet_id" binding:"required"`
	FirstName  string `json:"prenom_passager" binding:"required"`
	LastName   string `json:"nom_passager" binding:"required"`
	Phone      string `json:"telephone_passager" binding:"required,mali_phone"`
	Seats      int    `json:"nombre_places" binding:"required,min=1"`
	Refundable bool   `json:"option_remboursable"`
	Method     string `json:"methode_paiement" binding:"required"`
}

func createReservation(c *gin.Context, accountID *int64) {
	var req createReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	res, err := reservationService(c).Create(services.CreateReservationInput{
		TrajetID:   req.TrajetID,
		AccountID:  accountID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Seats:      req.Seats,
		Refundable: req.Refundable,
		Method:     req.Method,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

// POST /api/v1/reservations (authenticated)
func CreateReservation(c *gin.Context) {
	rc := middleware.GetRequestContext(c)
	accountID := int64(rc.AccountID)
	createReservation(c, &accountID)
}

// POST /api/v1/reservations/guest (public)
func CreateGuestReservation(c *gin.Context) {
	createReservation(c, nil)
}

// GET /api/v1/reservations (authenticated, own)
func ListMyReservations(c *gin.Context) {
	rc := middleware.GetRequestContext(c)
	p := QueryPagination(c)
	out, total, err := reservationService(c).ListForAccount(int64(rc.AccountID), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p.Total = total
	c.JSON(http.StatusOK, gin.H{"reservations": out, "pagination": p})
}

// GET /api/v1/reservations/:id (owner, carrier or admin)
func GetReservation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc := middleware.GetRequestContext(c)
	res, _, err := reservationService(c).GetAuthorized(id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{"reservation": res}
	if payment, err := (repositories.PaymentRepository{}).GetByReservationID(id); err == nil {
		resp["paiement"] = payment
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/transporter/reservations (carrier)
func ListCarrierReservations(c *gin.Context) {
	rc := middleware.GetRequestContext(c)
	f := repositories.CarrierFilter{}
	if raw := c.Query("trajet_id"); raw != "" {
		id, ok := queryID(c, raw)
		if !ok {
			return
		}
		f.TrajetID = id
	}
	if raw := c.Query("statut"); raw != "" {
		status, err := models.ParseReservationStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "statut inconnu")
			return
		}
		f.Status = status
	}

	p := QueryPagination(c)
	out, total, err := reservationService(c).ListForCarrier(int64(rc.CarrierID), f, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p.Total = total
	c.JSON(http.StatusOK, gin.H{"reservations": out, "pagination": p})
}

// GET /api/v1/transporter/trajets/:id/reservations (carrier)
func ListTrajetReservations(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc := middleware.GetRequestContext(c)
	out, err := reservationService(c).ListForTrajet(id, int64(rc.CarrierID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": out})
}

// GET /api/v1/reservations/admin/all (admin)
func ListAllReservations(c *gin.Context) {
	p := QueryPagination(c)
	out, total, err := reservationService(c).ListAll(p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p.Total = total
	c.JSON(http.StatusOK, gin.H{"reservations": out, "pagination": p})
}

// DELETE /api/v1/reservations/:id (owner, carrier or admin)
func CancelReservation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc := middleware.GetRequestContext(c)
	res, err := reservationService(c).Cancel(id, rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

type reservationStatusRequest struct {
	Status string `json:"statut" binding:"required"`
}

// PUT /api/v1/transporter/reservations/:id/status (carrier)
func UpdateReservationStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req reservationStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rc := middleware.GetRequestContext(c)
	res, err := reservationService(c).UpdateStatus(id, int64(rc.CarrierID), req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}
