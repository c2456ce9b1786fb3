package review

import (
	"time"

	"github.com/google/uuid"

	"storebot/internal/pkg/errs"
)

var (
	ErrOrderNotEligible    = errs.New("order is not eligible for review")
	ErrReviewAlreadyExists = errs.New("review already exists for this order")
)

type Review struct {
	id        uuid.UUID
	orderID   int64
	buyerRef  string
	rating    Rating
	comment   Comment
	createdAt time.Time
}

func NewReview(orderID int64, buyerRef string, ratingValue int, commentText string, now time.Time) (*Review, error) {
	rating, err := NewRating(ratingValue)
	if err != nil {
		return nil, err
	}

	comment, err := NewComment(commentText)
	if err != nil {
		return nil, err
	}

	return &Review{
		id:        uuid.New(),
		orderID:   orderID,
		buyerRef:  buyerRef,
		rating:    rating,
		comment:   comment,
		createdAt: now,
	}, nil
}

func ReconstructReview(
	id uuid.UUID,
	orderID int64,
	buyerRef string,
	rating Rating,
	comment Comment,
	createdAt time.Time,
) *Review {
	return &Review{
		id:        id,
		orderID:   orderID,
		buyerRef:  buyerRef,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
	}
}

func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) OrderID() int64       { return r.orderID }
func (r *Review) BuyerRef() string     { return r.buyerRef }
func (r *Review) Rating() Rating       { return r.rating }
func (r *Review) Comment() Comment     { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
