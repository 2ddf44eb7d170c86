package services

import (
	"fmt"
	"testing"

	"bookstore_go/models"
	"bookstore_go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	category := models.Category{Name: "Fiction"}
	require.NoError(t, db.Create(&category).Error)
	author := models.Author{Name: "Ursula K. Le Guin"}
	require.NoError(t, db.Create(&author).Error)

	book, err := bs.CreateBook(&CreateBookRequest{
		ISBN:            "9780441478125",
		Title:           "The Left Hand of Darkness",
		Price:           14.99,
		PublicationDate: "1969-03-01",
		CategoryID:      &category.ID,
		AuthorIDs:       []uint{author.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "9780441478125", book.ISBN)
	assert.Equal(t, models.AvailabilityInStock, book.Availability)
	assert.Equal(t, 0.00, book.AvgRating)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Ursula K. Le Guin", book.Authors[0].Name)
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	createTestBook(t, db, "9780441478125", 14.99)

	_, err := bs.CreateBook(&CreateBookRequest{
		ISBN:            "9780441478125",
		Title:           "Another Book",
		Price:           9.99,
		PublicationDate: "2020-01-01",
	})
	require.Error(t, err)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "ISBN")
}

func TestCreateBook_InvalidDate(t *testing.T) {
	setupTestDB(t)
	bs := NewBookService()

	_, err := bs.CreateBook(&CreateBookRequest{
		ISBN:            "9780000000301",
		Title:           "Bad Date",
		Price:           9.99,
		PublicationDate: "01/02/2020",
	})
	require.Error(t, err)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "publication_date")
}

func TestCreateBook_UnknownCategory(t *testing.T) {
	setupTestDB(t)
	bs := NewBookService()

	missing := uint(99999)
	_, err := bs.CreateBook(&CreateBookRequest{
		ISBN:            "9780000000302",
		Title:           "Orphan",
		Price:           9.99,
		PublicationDate: "2020-01-01",
		CategoryID:      &missing,
	})
	require.Error(t, err)

	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "category")
}

func TestUpdateBook_DerivedFieldsUntouched(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()
	rs := NewRatingService()

	book := createTestBook(t, db, "9780000000303", 20.00)
	user := createTestUser(t, db, "bs1@example.com")
	createTestReview(t, db, user.ID, book.ID, 4)
	require.NoError(t, rs.RecalculateBookRating(book.ID))

	// 常规字段更新不得影响派生的评分聚合
	newPrice := 25.00
	updated, err := bs.UpdateBook(book.ID, &UpdateBookRequest{
		Title: "Renamed",
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 25.00, updated.Price)
	assert.Equal(t, 4.00, updated.AvgRating)
	assert.Equal(t, uint(1), updated.TotalReviews)
}

func TestUpdateBook_ResponseReflectsWrite(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	book := createTestBook(t, db, "9780000000309", 10.00)

	// 读一次把记录装入缓存路径，随后的每次更新响应都必须是更新后的记录
	_, err := bs.GetBook(book.ID)
	require.NoError(t, err)

	for i, price := range []float64{11.00, 12.00, 13.00} {
		title := fmt.Sprintf("Edition %d", i+1)
		p := price

		updated, err := bs.UpdateBook(book.ID, &UpdateBookRequest{
			Title: title,
			Price: &p,
		})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, price, updated.Price)

		// 后续读取同样立即可见
		got, err := bs.GetBook(book.ID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, price, got.Price)
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	setupTestDB(t)
	bs := NewBookService()

	_, err := bs.UpdateBook(99999, &UpdateBookRequest{Title: "ghost"})
	require.Error(t, err)

	var nfe *utils.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "Book", nfe.Entity)
}

func TestDeleteBook_CascadesReviewsKeepsAuthors(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	author := models.Author{Name: "Shared Author"}
	require.NoError(t, db.Create(&author).Error)

	book := createTestBook(t, db, "9780000000304", 20.00)
	require.NoError(t, db.Model(book).Association("Authors").Append(&author))

	user := createTestUser(t, db, "bs2@example.com")
	createTestReview(t, db, user.ID, book.ID, 5)

	require.NoError(t, bs.DeleteBook(book.ID))

	// 评论随书删除
	var reviewCount int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("book_id = ?", book.ID).Count(&reviewCount).Error)
	assert.Equal(t, int64(0), reviewCount)

	// 作者本身保留，仅解除关联
	var gotAuthor models.Author
	assert.NoError(t, db.First(&gotAuthor, author.ID).Error)
}

func TestGetBooks_Filters(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	category := models.Category{Name: "Sci-Fi"}
	require.NoError(t, db.Create(&category).Error)

	cheap := createTestBook(t, db, "9780000000305", 5.00)
	require.NoError(t, db.Model(&models.Book{}).Where("id = ?", cheap.ID).
		Update("category_id", category.ID).Error)
	createTestBook(t, db, "9780000000306", 50.00)

	// 按分类筛选
	books, total, err := bs.GetBooks(1, 20, &BookFilters{Category: category.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, cheap.ID, books[0].ID)

	// 按价格区间筛选
	books, total, err = bs.GetBooks(1, 20, &BookFilters{MinPrice: 10.00})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "9780000000306", books[0].ISBN)

	// 无筛选返回全部
	_, total, err = bs.GetBooks(1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGetBooks_AuthorFilter(t *testing.T) {
	db := setupTestDB(t)
	bs := NewBookService()

	author := models.Author{Name: "Octavia Butler"}
	require.NoError(t, db.Create(&author).Error)

	match := createTestBook(t, db, "9780000000307", 12.00)
	require.NoError(t, db.Model(match).Association("Authors").Append(&author))
	createTestBook(t, db, "9780000000308", 12.00)

	books, total, err := bs.GetBooks(1, 20, &BookFilters{Author: "Butler"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, match.ID, books[0].ID)
}

func TestGetBook_NotFound(t *testing.T) {
	setupTestDB(t)
	bs := NewBookService()

	_, err := bs.GetBook(99999)
	require.Error(t, err)

	var nfe *utils.NotFoundError
	require.ErrorAs(t, err, &nfe)
}
