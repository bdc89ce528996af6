package service

import (
	"context"
	"errors"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("product already reviewed by this user")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

type ReviewService interface {
	ListProductReviews(ctx context.Context, productID uint) ([]model.Review, error)
	CreateReview(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uint, rating *int, comment *string) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func validRating(rating int) bool {
	return rating >= model.MinRating && rating <= model.MaxRating
}

func (s *reviewService) ListProductReviews(ctx context.Context, productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProductID(ctx, productID)
}

func (s *reviewService) CreateReview(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsDuplicateKey(err) {
			logger.Warn("Duplicate review rejected", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrReviewAlreadyExists
		}
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"rating":     rating,
	})
	return review, nil
}

func (s *reviewService) findOwned(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID uint, rating *int, comment *string) (*model.Review, error) {
	review, err := s.findOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if rating != nil {
		if !validRating(*rating) {
			return nil, ErrInvalidRating
		}
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = *comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	if _, err := s.findOwned(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
