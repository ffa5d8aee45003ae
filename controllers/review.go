package controllers

import (
	"net/http"

	"salonbook-backend/middleware"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ReviewInput struct {
	ServiceID string `json:"serviceId" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment" binding:"required,max=2000"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,min=1,max=2000"`
}

type ReviewController struct {
	reviews *services.ReviewService
	log     zerolog.Logger
}

func NewReviewController(reviews *services.ReviewService, log zerolog.Logger) *ReviewController {
	return &ReviewController{reviews: reviews, log: log}
}

func (rc *ReviewController) GetReviews(c *gin.Context) {
	list, err := rc.reviews.List(c.Request.Context())
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReviewController) GetServiceReviews(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId", "Service not found")
	if !ok {
		return
	}
	list, err := rc.reviews.ListByService(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReviewController) GetServiceRating(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId", "Service not found")
	if !ok {
		return
	}
	summary, err := rc.reviews.Summary(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.reviews.Create(c.Request.Context(), middleware.CurrentUser(c), services.ReviewInput{
		ServiceID: uuid.MustParse(input.ServiceID),
		Rating:    input.Rating,
		Comment:   input.Comment,
	})
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (rc *ReviewController) UpdateReview(c *gin.Context) {
	id, ok := pathID(c, "id", "Review not found")
	if !ok {
		return
	}
	var input UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.reviews.Update(c.Request.Context(), middleware.CurrentUser(c), id, services.ReviewUpdate{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id", "Review not found")
	if !ok {
		return
	}
	if err := rc.reviews.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
