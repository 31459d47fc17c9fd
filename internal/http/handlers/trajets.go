package handlers

import (
	"net/http"
	"strconv"

	"billettigue/internal/domain/models"
	"billettigue/internal/http/middleware"
	"billettigue/internal/repositories"
	"billettigue/internal/services"
	"billettigue/internal/utils"

	"github.com/gin-gonic/gin"
)

func trajetService(c *gin.Context) services.TrajetService {
	return services.TrajetService{RequestID: middleware.GetRequestID(c)}
}

type createTrajetRequest struct {
	DepartureCity  string   `json:"ville_depart" binding:"required"`
	ArrivalCity    string   `json:"ville_arrivee" binding:"required"`
	DepartureAt    string   `json:"date_depart" binding:"required"`
	UnitPrice      int64    `json:"prix_unitaire"`
	TotalSeats     int      `json:"nombre_places" binding:"required"`
	VehicleType    string   `json:"type_vehicule" binding:"required"`
	AcceptsParcels bool     `json:"accepte_colis"`
	MaxParcelKg    *float64 `json:"poids_max_colis"`
	ParcelPrice    *int64   `json:"prix_colis"`
	DeparturePoint string   `json:"point_depart"`
	ArrivalPoint   string   `json:"point_arrivee"`
	Conditions     string   `json:"conditions"`
}

// POST /api/v1/trajets (carrier)
func CreateTrajet(c *gin.Context) {
	var req createTrajetRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	departureAt, err := utils.ParseDateTime(req.DepartureAt)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date_depart invalide, format attendu YYYY-MM-DD HH:MM:SS")
		return
	}

	rc := middleware.GetRequestContext(c)
	trajet, err := trajetService(c).Create(services.CreateTrajetInput{
		CarrierID:      int64(rc.CarrierID),
		DepartureCity:  req.DepartureCity,
		ArrivalCity:    req.ArrivalCity,
		DepartureAt:    departureAt,
		UnitPrice:      req.UnitPrice,
		TotalSeats:     req.TotalSeats,
		VehicleType:    req.VehicleType,
		AcceptsParcels: req.AcceptsParcels,
		MaxParcelKg:    req.MaxParcelKg,
		ParcelPrice:    req.ParcelPrice,
		DeparturePoint: req.DeparturePoint,
		ArrivalPoint:   req.ArrivalPoint,
		Conditions:     req.Conditions,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trajet": trajet})
}

// GET /api/v1/trajets (public)
func ListTrajets(c *gin.Context) {
	f := repositories.TrajetFilter{
		DepartureCity: utils.NormalizeCity(c.Query("ville_depart")),
		ArrivalCity:   utils.NormalizeCity(c.Query("ville_arrivee")),
	}
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "date invalide, format attendu YYYY-MM-DD")
			return
		}
		f.Date = &d
	}
	if raw := c.Query("statut"); raw != "" {
		status, err := models.ParseTrajetStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "statut inconnu")
			return
		}
		f.Status = status
	}
	if raw := c.Query("type_vehicule"); raw != "" {
		vehicle, err := models.ParseVehicleType(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "type_vehicule inconnu")
			return
		}
		f.VehicleType = vehicle
	}
	if raw := c.Query("accepte_colis"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "accepte_colis invalide")
			return
		}
		f.AcceptsParcels = &b
	}

	p := QueryPagination(c)
	trajets, total, err := trajetService(c).List(f, p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p.Total = total
	c.JSON(http.StatusOK, gin.H{"trajets": trajets, "pagination": p})
}

// GET /api/v1/trajets/:id (public)
func GetTrajet(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	trajet, err := trajetService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajet": trajet})
}

type updateTrajetRequest struct {
	DepartureCity  *string  `json:"ville_depart"`
	ArrivalCity    *string  `json:"ville_arrivee"`
	DepartureAt    *string  `json:"date_depart"`
	UnitPrice      *int64   `json:"prix_unitaire"`
	VehicleType    *string  `json:"type_vehicule"`
	AcceptsParcels *bool    `json:"accepte_colis"`
	MaxParcelKg    *float64 `json:"poids_max_colis"`
	ParcelPrice    *int64   `json:"prix_colis"`
	DeparturePoint *string  `json:"point_depart"`
	ArrivalPoint   *string  `json:"point_arrivee"`
	Conditions     *string  `json:"conditions"`
}

// PUT /api/v1/trajets/:id (owner)
func UpdateTrajet(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req updateTrajetRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	in := services.UpdateTrajetInput{
		DepartureCity:  req.DepartureCity,
		ArrivalCity:    req.ArrivalCity,
		UnitPrice:      req.UnitPrice,
		VehicleType:    req.VehicleType,
		AcceptsParcels: req.AcceptsParcels,
		MaxParcelKg:    req.MaxParcelKg,
		ParcelPrice:    req.ParcelPrice,
		DeparturePoint: req.DeparturePoint,
		ArrivalPoint:   req.ArrivalPoint,
		Conditions:     req.Conditions,
	}
	if req.DepartureAt != nil {
		departureAt, err := utils.ParseDateTime(*req.DepartureAt)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "date_depart invalide, format attendu YYYY-MM-DD HH:MM:SS")
			return
		}
		in.DepartureAt = &departureAt
	}

	rc := middleware.GetRequestContext(c)
	trajet, err := trajetService(c).Update(id, int64(rc.CarrierID), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajet": trajet})
}

// DELETE /api/v1/trajets/:id (owner, logical cancel)
func CancelTrajet(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	rc := middleware.GetRequestContext(c)
	trajet, err := trajetService(c).Cancel(id, int64(rc.CarrierID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajet": trajet})
}

type trajetStatusRequest struct {
	Status string `json:"statut" binding:"required"`
}

// PUT /api/v1/trajets/:id/status (owner)
func UpdateTrajetStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req trajetStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rc := middleware.GetRequestContext(c)
	trajet, err := trajetService(c).UpdateStatus(id, int64(rc.CarrierID), req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trajet": trajet})
}
