package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"opticapa_api/internal/crud"
	"opticapa_api/internal/services"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// AxeEfController exposes the axis service over HTTP.
type AxeEfController struct {
	svc *services.AxeEfService
}

func NewAxeEfController(svc *services.AxeEfService) *AxeEfController {
	return &AxeEfController{svc: svc}
}

// GetAll returns the paginated axis list with its total count.
func (ct *AxeEfController) GetAll(c *gin.Context) {
	result, err := ct.svc.GetAllAxesEf(c.Request.Context(), parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one axis with its sections.
func (ct *AxeEfController) Get(c *gin.Context) {
	result, err := ct.svc.GetAxeEf(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create registers a new axis.
func (ct *AxeEfController) Create(c *gin.Context) {
	var request services.AxeEfCreateUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.WithError(err).Warn("CreateAxeEf: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	result, err := ct.svc.CreateAxeEf(c.Request.Context(), request, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Update replaces an existing axis and its section set.
func (ct *AxeEfController) Update(c *gin.Context) {
	var request services.AxeEfCreateUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		logrus.WithError(err).Warn("UpdateAxeEf: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	result, err := ct.svc.UpdateAxeEf(c.Request.Context(), c.Param("id"), request, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes an axis by id.
func (ct *AxeEfController) Delete(c *gin.Context) {
	result, err := ct.svc.DeleteAxeEf(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Renew clones an axis forward into the service annuel named by the
// service_annuel_id query parameter.
func (ct *AxeEfController) Renew(c *gin.Context) {
	serviceAnnuelID := c.Query("service_annuel_id")
	if serviceAnnuelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_annuel_id query parameter is required"})
		return
	}
	result, err := ct.svc.RenewAxeEf(c.Request.Context(), c.Param("id"), serviceAnnuelID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// parsePagination reads limit/offset/search query parameters, falling back to
// the default limit and capping oversized requests.
func parsePagination(c *gin.Context) services.ListParams {
	params := services.ListParams{Limit: defaultListLimit, Search: c.Query("search")}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			params.Limit = min(limit, maxListLimit)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			params.Offset = offset
		}
	}
	return params
}

// respondError maps service errors onto HTTP statuses; anything outside the
// API taxonomy is a 500.
func respondError(c *gin.Context, err error) {
	var apiErr *crud.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	logrus.WithError(err).Error("unhandled service error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// currentUserID reads the user id claim stored by the auth middleware.
// JWT numeric claims decode as float64.
func currentUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(float64); ok {
		return uint(id)
	}
	return 0
}
