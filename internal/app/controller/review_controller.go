package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// GetProductReviews lists reviews of a product. Signed-in callers also get
// their own review back as myReview.
// GET /api/review/product/:productId
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListProductReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	var average float64
	if len(reviews) > 0 {
		average = float64(sum) / float64(len(reviews))
	}

	body := gin.H{
		"reviews":       reviews,
		"count":         len(reviews),
		"averageRating": average,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		var mine *model.Review
		for i := range reviews {
			if reviews[i].UserID == userID {
				mine = &reviews[i]
				break
			}
		}
		body["myReview"] = mine
	}

	respondOK(c, http.StatusOK, body)
}

// CreateReview reviews a product once per customer
// POST /api/review/product/:productId
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), userID, productID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err, "create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})

	respondOK(c, http.StatusCreated, gin.H{"review": review})
}

// UpdateReview edits the caller's own review
// PUT /api/review/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := ctrl.reviewService.UpdateReview(c.Request.Context(), userID, id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err, "update review")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"review": review})
}

// DeleteReview removes the caller's own review
// DELETE /api/review/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "delete review")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
