package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(1, 2, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, uint(1), r.BookID)
	assert.Equal(t, uint(2), r.ReviewerID)
	assert.Equal(t, 5, r.Rating)

	// 评分越界
	for _, rating := range []int{0, 6, -1} {
		_, err := NewReview(1, 2, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating=%d", rating)
	}
}

func TestNewBook(t *testing.T) {
	published := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	b, err := NewBook("Go入门", 1, nil, "9781234567890", 2999, 300, published)
	require.NoError(t, err)
	assert.Equal(t, "Go入门", b.Title)
	assert.Nil(t, b.PublisherID)
	assert.Equal(t, int64(2999), b.Price)

	pubID := uint(3)
	b2, err := NewBook("Go进阶", 1, &pubID, "9780987654321", 3999, 400, published)
	require.NoError(t, err)
	require.NotNil(t, b2.PublisherID)
	assert.Equal(t, uint(3), *b2.PublisherID)
}

func TestNewBookValidation(t *testing.T) {
	published := time.Now()

	_, err := NewBook("x", 1, nil, "9781234567890", 0, 100, published)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewBook("x", 1, nil, "9781234567890", 100, 0, published)
	assert.ErrorIs(t, err, ErrInvalidPages)

	_, err = NewBook("x", 1, nil, "", 100, 100, published)
	assert.ErrorIs(t, err, ErrInvalidISBN)
}
