package controllers

import (
	"net/http"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type PromotionInput struct {
	Title              string              `json:"title" binding:"required"`
	Description        string              `json:"description" binding:"required"`
	DiscountType       models.DiscountType `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue      *decimal.Decimal    `json:"discountValue" binding:"required"`
	Code               string              `json:"code" binding:"required"`
	StartDate          *time.Time          `json:"startDate" binding:"required"`
	EndDate            *time.Time          `json:"endDate" binding:"required"`
	ApplicableServices []uuid.UUID         `json:"applicableServices"`
	MaxUses            *int                `json:"maxUses" binding:"omitempty,gte=1"`
}

type UpdatePromotionInput struct {
	Title              *string              `json:"title" binding:"omitempty,min=1"`
	Description        *string              `json:"description"`
	DiscountType       *models.DiscountType `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue      *decimal.Decimal     `json:"discountValue"`
	StartDate          *time.Time           `json:"startDate"`
	EndDate            *time.Time           `json:"endDate"`
	IsActive           *bool                `json:"isActive"`
	ApplicableServices *[]uuid.UUID         `json:"applicableServices"`
	MaxUses            *int                 `json:"maxUses" binding:"omitempty,gte=1"`
}

type ValidatePromotionInput struct {
	Code      string     `json:"code" binding:"required"`
	ServiceID *uuid.UUID `json:"serviceId"`
}

type PromotionController struct {
	promotions *services.PromotionService
	log        zerolog.Logger
}

func NewPromotionController(promotions *services.PromotionService, log zerolog.Logger) *PromotionController {
	return &PromotionController{promotions: promotions, log: log}
}

// GetPromotions lists promotions that are active and currently running.
func (pc *PromotionController) GetPromotions(c *gin.Context) {
	list, err := pc.promotions.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (pc *PromotionController) GetPromotion(c *gin.Context) {
	id, ok := pathID(c, "id", "Promotion not found")
	if !ok {
		return
	}
	promo, err := pc.promotions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var input PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.promotions.Create(c.Request.Context(), services.PromotionInput{
		Title:              input.Title,
		Description:        input.Description,
		DiscountType:       input.DiscountType,
		DiscountValue:      *input.DiscountValue,
		Code:               input.Code,
		StartDate:          *input.StartDate,
		EndDate:            *input.EndDate,
		ApplicableServices: input.ApplicableServices,
		MaxUses:            input.MaxUses,
	})
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	id, ok := pathID(c, "id", "Promotion not found")
	if !ok {
		return
	}
	var input UpdatePromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.promotions.Update(c.Request.Context(), id, services.PromotionUpdate{
		Title:              input.Title,
		Description:        input.Description,
		DiscountType:       input.DiscountType,
		DiscountValue:      input.DiscountValue,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		IsActive:           input.IsActive,
		ApplicableServices: input.ApplicableServices,
		MaxUses:            input.MaxUses,
	})
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	id, ok := pathID(c, "id", "Promotion not found")
	if !ok {
		return
	}
	if err := pc.promotions.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion deactivated successfully"})
}

// ValidatePromotion checks a code without consuming a use.
func (pc *PromotionController) ValidatePromotion(c *gin.Context) {
	var input ValidatePromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.promotions.Validate(c.Request.Context(), input.Code, input.ServiceID)
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}
