package controllers

import (
	"net/http"
	"strconv"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ServiceInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Duration    int              `json:"duration" binding:"required,gte=1"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    models.Category  `json:"category" binding:"required,oneof=haircut spa facial massage other"`
	Image       string           `json:"image"`
}

type UpdateServiceInput struct {
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Duration    *int             `json:"duration" binding:"omitempty,gte=1"`
	Price       *decimal.Decimal `json:"price"`
	Category    *models.Category `json:"category" binding:"omitempty,oneof=haircut spa facial massage other"`
	Image       *string          `json:"image"`
	IsActive    *bool            `json:"isActive"`
}

type ServiceController struct {
	catalog *services.CatalogService
	log     zerolog.Logger
}

func NewServiceController(catalog *services.CatalogService, log zerolog.Logger) *ServiceController {
	return &ServiceController{catalog: catalog, log: log}
}

// GetServices lists the catalog, optionally filtered by ?category= and ?isActive=.
func (sc *ServiceController) GetServices(c *gin.Context) {
	var filter services.ServiceFilter
	if category := c.Query("category"); category != "" {
		cat := models.Category(category)
		if !cat.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category filter")
			return
		}
		filter.Category = &cat
	}
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "isActive must be true or false")
			return
		}
		filter.IsActive = &active
	}

	list, err := sc.catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *ServiceController) SearchServices(c *gin.Context) {
	list, err := sc.catalog.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *ServiceController) GetService(c *gin.Context) {
	id, ok := pathID(c, "id", "Service not found")
	if !ok {
		return
	}
	service, err := sc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (sc *ServiceController) CreateService(c *gin.Context) {
	var input ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	service, err := sc.catalog.Create(c.Request.Context(), services.ServiceInput{
		Name:        input.Name,
		Description: input.Description,
		Duration:    input.Duration,
		Price:       *input.Price,
		Category:    input.Category,
		Image:       input.Image,
	})
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id", "Service not found")
	if !ok {
		return
	}
	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	service, err := sc.catalog.Update(c.Request.Context(), id, services.ServiceUpdate{
		Name:        input.Name,
		Description: input.Description,
		Duration:    input.Duration,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		IsActive:    input.IsActive,
	})
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService deactivates the service; past appointments keep referencing it.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id", "Service not found")
	if !ok {
		return
	}
	if err := sc.catalog.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deactivated successfully"})
}
