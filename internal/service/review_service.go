package service

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrReviewExists      = errors.New("product already reviewed by this user")
	ErrReviewNotEligible = errors.New("only delivered purchases can be reviewed")
	ErrReviewForbidden   = errors.New("review belongs to another user")
)

// --- DTOs ---

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ProductReviewsResponse struct {
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	Total         int64          `json:"total"`
}

// --- Interface ---

type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*model.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req UpdateReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID, isStaff bool) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*ProductReviewsResponse, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	orders  repository.OrderRepository
}

func NewReviewService(reviews repository.ReviewRepository, orders repository.OrderRepository) ReviewService {
	return &reviewService{reviews: reviews, orders: orders}
}

// --- Implementation ---

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*model.Review, error) {
	purchased, err := s.orders.HasDeliveredOrderWithProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrReviewNotEligible
	}

	if _, err := s.reviews.FindByProductAndUser(ctx, req.ProductID, userID); err == nil {
		return nil, ErrReviewExists
	}

	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req UpdateReviewRequest) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, ErrReviewForbidden
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID, isStaff bool) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return ErrReviewNotFound
	}
	if !isStaff && review.UserID != userID {
		return ErrReviewForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*ProductReviewsResponse, error) {
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, err
	}

	avg, err := s.reviews.AverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ProductReviewsResponse{
		Reviews:       reviews,
		AverageRating: avg,
		Total:         total,
	}, nil
}
