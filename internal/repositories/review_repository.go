package repositories

import (
	"fmt"
	"log"

	"essence/internal/models"
	"essence/pkg/kvstore"
)

// ReviewRepository persists customer reviews, one list per product.
type ReviewRepository interface {
	Reviews(productID string) []models.Review
	Append(review models.Review) error
	// AverageRating returns the mean rating for productID, or 0 when
	// the product has no reviews.
	AverageRating(productID string) float64
}

// KVReviewRepository is the kv-store implementation of
// ReviewRepository.
type KVReviewRepository struct {
	store kvstore.Store
}

// NewReviewRepository creates a KVReviewRepository over store.
func NewReviewRepository(store kvstore.Store) *KVReviewRepository {
	return &KVReviewRepository{store: store}
}

// Reviews returns the stored reviews for productID.
func (r *KVReviewRepository) Reviews(productID string) []models.Review {
	var reviews []models.Review
	if _, err := kvstore.GetJSON(r.store, ReviewsKey(productID), &reviews); err != nil {
		log.Printf("reviews: stored value for product %s unreadable: %v", productID, err)
		return nil
	}
	return reviews
}

// Append adds review to its product's list.
func (r *KVReviewRepository) Append(review models.Review) error {
	reviews := append(r.Reviews(review.ProductID), review)
	if err := kvstore.SetJSON(r.store, ReviewsKey(review.ProductID), reviews); err != nil {
		return fmt.Errorf("failed to save review for product %s: %w", review.ProductID, err)
	}
	return nil
}

// AverageRating returns the mean rating for productID.
func (r *KVReviewRepository) AverageRating(productID string) float64 {
	reviews := r.Reviews(productID)
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}
