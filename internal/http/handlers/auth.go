package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"billettigue/internal/domain/models"
	"billettigue/internal/http/middleware"
	"billettigue/internal/repositories"
	"billettigue/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	FirstName   string `json:"prenom" binding:"required"`
	LastName    string `json:"nom" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"telephone" binding:"required,mali_phone"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role"`
	CompanyName string `json:"nom_entreprise"`
}

// POST /api/v1/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	role := models.RoleUser
	if req.Role == models.RoleCarrier {
		role = models.RoleCarrier
		if utils.NormalizeSpace(req.CompanyName) == "" {
			respondError(c, http.StatusBadRequest, "validation_error", "nom_entreprise requis pour un transporteur")
			return
		}
	}

	repo := repositories.AccountRepository{}
	exists, err := repo.EmailExists(req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "validation_error", "email deja utilise")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	account := models.Account{
		FirstName: utils.NormalizeSpace(req.FirstName),
		LastName:  utils.NormalizeSpace(req.LastName),
		Email:     req.Email,
		Phone:     utils.NormalizePhone(req.Phone),
		Role:      role,
	}
	accountID, err := repo.Create(account, string(hash))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	account.ID = accountID

	var carrierID int64
	if role == models.RoleCarrier {
		carrierID, err = repo.CreateCarrier(models.Carrier{
			AccountID:   accountID,
			CompanyName: utils.NormalizeSpace(req.CompanyName),
			Phone:       account.Phone,
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "account_id="+itoa(accountID))
	c.JSON(http.StatusCreated, gin.H{
		"compte":          account,
		"transporteur_id": carrierID,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/v1/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.AccountRepository{}
	account, hash, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "email ou mot de passe incorrect")
			return
		}
		RespondDomainError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "email ou mot de passe incorrect")
		return
	}

	claims := jwt.MapClaims{
		"account_id": account.ID,
		"role":       account.Role,
		"exp":        time.Now().Add(env.JWTTTL).Unix(),
	}
	if account.Role == models.RoleCarrier {
		if carrier, err := repo.GetCarrierByAccountID(account.ID); err == nil {
			claims["carrier_id"] = carrier.ID
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(env.JWTSecret))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "account_id="+itoa(account.ID))
	c.JSON(http.StatusOK, gin.H{
		"token":  signed,
		"compte": account,
	})
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
