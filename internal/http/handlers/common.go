package handlers

import (
	"net/http"
	"strconv"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain"

	"github.com/gin-gonic/gin"
)

var env intconfig.Env

// Init wires the loaded environment into the handler package.
func Init(e intconfig.Env) {
	env = e
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "corps de requete manquant")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload invalide: "+err.Error())
		return false
	}
	return true
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "identifiant invalide")
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "identifiant invalide")
		return 0, false
	}
	return id, true
}

// QueryPagination reads page/limit query params.
func QueryPagination(c *gin.Context) domain.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	p := domain.Pagination{Page: page, PageSize: limit}
	p.Normalize()
	return p
}
