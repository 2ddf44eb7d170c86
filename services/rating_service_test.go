package services

import (
	"testing"

	"bookstore_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateBookRating(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRatingService()

	book := createTestBook(t, db, "9780000000001", 29.99)
	u1 := createTestUser(t, db, "r1@example.com")
	u2 := createTestUser(t, db, "r2@example.com")
	u3 := createTestUser(t, db, "r3@example.com")

	createTestReview(t, db, u1.ID, book.ID, 4)
	createTestReview(t, db, u2.ID, book.ID, 5)
	createTestReview(t, db, u3.ID, book.ID, 3)

	require.NoError(t, rs.RecalculateBookRating(book.ID))

	var got models.Book
	require.NoError(t, db.First(&got, book.ID).Error)
	assert.Equal(t, 4.00, got.AvgRating)
	assert.Equal(t, uint(3), got.TotalReviews)
}

func TestRecalculateBookRating_AfterDelete(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRatingService()

	book := createTestBook(t, db, "9780000000002", 19.99)
	u1 := createTestUser(t, db, "d1@example.com")
	u2 := createTestUser(t, db, "d2@example.com")
	u3 := createTestUser(t, db, "d3@example.com")

	createTestReview(t, db, u1.ID, book.ID, 4)
	createTestReview(t, db, u2.ID, book.ID, 5)
	victim := createTestReview(t, db, u3.ID, book.ID, 3)

	require.NoError(t, rs.RecalculateBookRating(book.ID))

	require.NoError(t, db.Delete(victim).Error)
	require.NoError(t, rs.RecalculateBookRating(book.ID))

	var got models.Book
	require.NoError(t, db.First(&got, book.ID).Error)
	assert.Equal(t, 4.50, got.AvgRating)
	assert.Equal(t, uint(2), got.TotalReviews)
}

func TestRecalculateBookRating_NoReviews(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRatingService()

	book := createTestBook(t, db, "9780000000003", 9.99)

	require.NoError(t, rs.RecalculateBookRating(book.ID))

	var got models.Book
	require.NoError(t, db.First(&got, book.ID).Error)
	assert.Equal(t, 0.00, got.AvgRating)
	assert.Equal(t, uint(0), got.TotalReviews)
}

func TestRecalculateBookRating_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRatingService()

	book := createTestBook(t, db, "9780000000004", 15.00)
	u1 := createTestUser(t, db, "i1@example.com")
	createTestReview(t, db, u1.ID, book.ID, 5)

	require.NoError(t, rs.RecalculateBookRating(book.ID))
	require.NoError(t, rs.RecalculateBookRating(book.ID))
	require.NoError(t, rs.RecalculateBookRating(book.ID))

	var got models.Book
	require.NoError(t, db.First(&got, book.ID).Error)
	assert.Equal(t, 5.00, got.AvgRating)
	assert.Equal(t, uint(1), got.TotalReviews)
}

func TestRecalculateBookRating_MissingBook(t *testing.T) {
	setupTestDB(t)
	rs := NewRatingService()

	// 书不存在时视为无操作，不报错
	assert.NoError(t, rs.RecalculateBookRating(99999))
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]int{}))
	assert.Equal(t, 4.0, AverageRating([]int{4, 5, 3}))
	assert.Equal(t, 4.5, AverageRating([]int{4, 5}))
	assert.Equal(t, 3.67, AverageRating([]int{3, 4, 4}))
	assert.Equal(t, 4.33, AverageRating([]int{4, 4, 5}))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 3.67, RoundRating(3.666666))
	assert.Equal(t, 4.33, RoundRating(4.333333))
	assert.Equal(t, 5.0, RoundRating(5.0))
	assert.Equal(t, 2.47, RoundRating(2.468))
}
