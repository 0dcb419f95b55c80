package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	authormodel "bookshelf-backend/internal/domains/author/model"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	categorymodel "bookshelf-backend/internal/domains/category/model"
	"bookshelf-backend/internal/infrastructure/storage"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/identity"
)

type mockAuthors struct{ mock.Mock }

func (m *mockAuthors) List(ctx context.Context, f authormodel.AuthorFilter) ([]authormodel.Author, int64, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]authormodel.Author)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockAuthors) GetByID(ctx context.Context, id int64) (*authormodel.Author, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*authormodel.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) Create(ctx context.Context, in authormodel.AuthorInput) (*authormodel.Author, error) {
	args := m.Called(in)
	a, _ := args.Get(0).(*authormodel.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) Replace(ctx context.Context, id int64, in authormodel.AuthorInput) (*authormodel.Author, error) {
	args := m.Called(id, in)
	a, _ := args.Get(0).(*authormodel.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) PartialUpdate(ctx context.Context, id int64, in authormodel.AuthorInput) (*authormodel.Author, error) {
	args := m.Called(id, in)
	a, _ := args.Get(0).(*authormodel.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

type mockCategories struct{ mock.Mock }

func (m *mockCategories) List(ctx context.Context, f categorymodel.CategoryFilter) ([]categorymodel.Category, int64, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]categorymodel.Category)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockCategories) GetByID(ctx context.Context, id int64) (*categorymodel.Category, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*categorymodel.Category)
	return c, args.Error(1)
}

func (m *mockCategories) Create(ctx context.Context, in categorymodel.CategoryInput) (*categorymodel.Category, error) {
	args := m.Called(in)
	c, _ := args.Get(0).(*categorymodel.Category)
	return c, args.Error(1)
}

func (m *mockCategories) Replace(ctx context.Context, id int64, in categorymodel.CategoryInput) (*categorymodel.Category, error) {
	args := m.Called(id, in)
	c, _ := args.Get(0).(*categorymodel.Category)
	return c, args.Error(1)
}

func (m *mockCategories) PartialUpdate(ctx context.Context, id int64, in categorymodel.CategoryInput) (*categorymodel.Category, error) {
	args := m.Called(id, in)
	c, _ := args.Get(0).(*categorymodel.Category)
	return c, args.Error(1)
}

func (m *mockCategories) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

type mockBooks struct{ mock.Mock }

func (m *mockBooks) List(ctx context.Context, f bookmodel.BookFilter) ([]bookmodel.Book, int64, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]bookmodel.Book)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockBooks) GetByID(ctx context.Context, id int64) (*bookmodel.Book, error) {
	args := m.Called(id)
	b, _ := args.Get(0).(*bookmodel.Book)
	return b, args.Error(1)
}

func (m *mockBooks) Create(ctx context.Context, in bookmodel.BookInput) (*bookmodel.Book, error) {
	args := m.Called(in)
	b, _ := args.Get(0).(*bookmodel.Book)
	return b, args.Error(1)
}

func (m *mockBooks) Replace(ctx context.Context, id int64, in bookmodel.BookInput) (*bookmodel.Book, error) {
	args := m.Called(id, in)
	b, _ := args.Get(0).(*bookmodel.Book)
	return b, args.Error(1)
}

func (m *mockBooks) PartialUpdate(ctx context.Context, id int64, in bookmodel.BookInput) (*bookmodel.Book, error) {
	args := m.Called(id, in)
	b, _ := args.Get(0).(*bookmodel.Book)
	return b, args.Error(1)
}

func (m *mockBooks) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockBooks) Statistics(ctx context.Context) (*bookmodel.Statistics, error) {
	args := m.Called()
	s, _ := args.Get(0).(*bookmodel.Statistics)
	return s, args.Error(1)
}

func (m *mockBooks) Export(ctx context.Context, f bookmodel.BookFilter) (*excelize.File, error) {
	args := m.Called(f)
	out, _ := args.Get(0).(*excelize.File)
	return out, args.Error(1)
}

func (m *mockBooks) OpenCover(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(key)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}

type fixture struct {
	authors    *mockAuthors
	categories *mockCategories
	books      *mockBooks
	schema     graphql.Schema
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{authors: new(mockAuthors), categories: new(mockCategories), books: new(mockBooks)}
	schema, err := NewSchema(Services{
		Authors:    f.authors,
		Categories: f.categories,
		Books:      f.books,
		MediaURL:   "/media/",
	})
	require.NoError(t, err)
	f.schema = schema
	return f
}

func loggedIn() context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{UserID: 1, Username: "admin"})
}

// run executes query and returns its data as JSON together with the error
// messages.
func (f *fixture) run(t *testing.T, ctx context.Context, query string) (string, []string) {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: f.schema, RequestString: query, Context: ctx})
	data, err := json.Marshal(res.Data)
	require.NoError(t, err)
	var messages []string
	for _, e := range res.Errors {
		messages = append(messages, e.Message)
	}
	return string(data), messages
}

func gid(typeName string, id string) string {
	return relay.ToGlobalID(typeName, id)
}

func TestAllAuthors_Pagination(t *testing.T) {
	f := newFixture(t)
	f.authors.On("List", authormodel.AuthorFilter{LastName: "Herbert", Limit: 2, Offset: 0}).Return([]authormodel.Author{
		{ID: 1, FirstName: "Frank", LastName: "Herbert"},
		{ID: 2, FirstName: "Brian", LastName: "Herbert"},
	}, int64(3), nil)

	data, errs := f.run(t, context.Background(), `{
		allAuthors(lastName: "Herbert", first: 2) {
			edges { node { id firstName } }
			pageInfo { hasNextPage hasPreviousPage }
		}
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"allAuthors": {
		"edges": [
			{"node": {"id": "`+gid(typeAuthor, "1")+`", "firstName": "Frank"}},
			{"node": {"id": "`+gid(typeAuthor, "2")+`", "firstName": "Brian"}}
		],
		"pageInfo": {"hasNextPage": true, "hasPreviousPage": false}
	}}`, data)
}

func TestAllAuthors_AfterCursor(t *testing.T) {
	f := newFixture(t)
	f.authors.On("List", authormodel.AuthorFilter{Limit: 100, Offset: 2}).Return([]authormodel.Author{
		{ID: 3, FirstName: "Isaac", LastName: "Asimov"},
	}, int64(3), nil)

	after := string(relay.OffsetToCursor(1))
	data, errs := f.run(t, context.Background(), `{
		allAuthors(after: "`+after+`") { edges { node { lastName } } pageInfo { hasNextPage } }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"allAuthors": {
		"edges": [{"node": {"lastName": "Asimov"}}],
		"pageInfo": {"hasNextPage": false}
	}}`, data)
}

func TestAllAuthors_FirstTooLarge(t *testing.T) {
	f := newFixture(t)

	_, errs := f.run(t, context.Background(), `{ allAuthors(first: 101) { edges { node { id } } } }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "exceeds the limit of 100 records")
	f.authors.AssertNotCalled(t, "List", mock.Anything)
}

func TestAuthorLookup(t *testing.T) {
	f := newFixture(t)
	f.authors.On("GetByID", int64(1)).Return(&authormodel.Author{ID: 1, FirstName: "Frank", LastName: "Herbert"}, nil)
	f.authors.On("GetByID", int64(9)).Return(nil, apperr.NotFound(authormodel.ResourceName, int64(9)))

	data, errs := f.run(t, context.Background(), `{ author(id: "`+gid(typeAuthor, "1")+`") { lastName } }`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"author": {"lastName": "Herbert"}}`, data)

	data, errs = f.run(t, context.Background(), `{ author(id: "`+gid(typeAuthor, "9")+`") { lastName } }`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"author": null}`, data)

	_, errs = f.run(t, context.Background(), `{ author(id: "`+gid(typeBook, "1")+`") { lastName } }`)
	assert.Equal(t, []string{"Invalid author ID."}, errs)
}

func TestNode(t *testing.T) {
	f := newFixture(t)
	f.categories.On("GetByID", int64(4)).Return(&categorymodel.Category{ID: 4, Name: "Poetry"}, nil)

	data, errs := f.run(t, context.Background(), `{
		node(id: "`+gid(typeCategory, "4")+`") { id ... on CategoryType { name } }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"node": {"id": "`+gid(typeCategory, "4")+`", "name": "Poetry"}}`, data)
}

func TestBookFields(t *testing.T) {
	f := newFixture(t)
	cover := "book_covers/dune.jpg"
	pages := 412
	f.books.On("GetByID", int64(7)).Return(&bookmodel.Book{
		ID: 7, Title: "Dune", AuthorID: 1, AuthorFirstName: "Frank", AuthorLastName: "Herbert",
		Price:           decimal.RequireFromString("9.5"),
		PublicationDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		Format:          bookmodel.FormatHardback,
		CoverImage:      &cover,
		Details:         &bookmodel.Details{NumberOfPages: &pages},
	}, nil)
	bookID := int64(7)
	f.categories.On("List", categorymodel.CategoryFilter{BookID: &bookID, Limit: 100}).
		Return([]categorymodel.Category{{ID: 2, Name: "Sci-Fi", Description: "Space"}}, int64(1), nil)

	data, errs := f.run(t, context.Background(), `{
		book(id: "`+gid(typeBook, "7")+`") {
			title price publicationDate bookFormat coverImage
			author { firstName }
			categories { edges { node { name description } } }
			details { isbn numberOfPages }
		}
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"book": {
		"title": "Dune",
		"price": "9.50",
		"publicationDate": "1965-08-01",
		"bookFormat": "HB",
		"coverImage": "/media/book_covers/dune.jpg",
		"author": {"firstName": "Frank"},
		"categories": {"edges": [{"node": {"name": "Sci-Fi", "description": "Space"}}]},
		"details": {"isbn": null, "numberOfPages": 412}
	}}`, data)
}

func TestBookStatistics(t *testing.T) {
	f := newFixture(t)
	f.books.On("Statistics").Return(&bookmodel.Statistics{
		AveragePrice:   decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		TotalBooks:     2,
		MinPrice:       decimal.NewNullDecimal(decimal.RequireFromString("5")),
		MaxPrice:       decimal.NewNullDecimal(decimal.RequireFromString("20")),
		BooksPerAuthor: []bookmodel.AuthorBookCount{{FirstName: "Jane", LastName: "Austen", NumBooks: 0}},
	}, nil)

	data, errs := f.run(t, context.Background(), `{
		bookStatistics { averagePrice totalBooks minPrice maxPrice booksPerAuthor { lastName numBooks } }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"bookStatistics": {
		"averagePrice": "12.5", "totalBooks": 2, "minPrice": "5", "maxPrice": "20",
		"booksPerAuthor": [{"lastName": "Austen", "numBooks": 0}]
	}}`, data)
}

func TestCreateAuthor(t *testing.T) {
	const mutation = `mutation { createAuthor(firstName: "Frank", lastName: "Herbert") { ok errors author { id lastName } } }`

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)
		data, errs := f.run(t, context.Background(), mutation)
		require.Empty(t, errs)
		assert.JSONEq(t, `{"createAuthor": {"ok": false, "errors": ["You must be logged in."], "author": null}}`, data)
		f.authors.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.authors.On("Create", mock.Anything).Return(&authormodel.Author{ID: 5, FirstName: "Frank", LastName: "Herbert"}, nil)

		data, errs := f.run(t, loggedIn(), mutation)
		require.Empty(t, errs)
		assert.JSONEq(t, `{"createAuthor": {"ok": true, "errors": null,
			"author": {"id": "`+gid(typeAuthor, "5")+`", "lastName": "Herbert"}}}`, data)
	})

	t.Run("conflict", func(t *testing.T) {
		f := newFixture(t)
		f.authors.On("Create", mock.Anything).Return(nil, apperr.Conflict(apperr.NonFieldErrors, authormodel.MsgDuplicateAuthor))

		data, errs := f.run(t, loggedIn(), mutation)
		require.Empty(t, errs)
		assert.JSONEq(t, `{"createAuthor": {"ok": false, "author": null,
			"errors": ["An author with this first name and last name already exists."]}}`, data)
	})
}

func TestUpdateBook_InvalidCategory(t *testing.T) {
	f := newFixture(t)

	data, errs := f.run(t, loggedIn(), `mutation {
		updateBook(id: "`+gid(typeBook, "1")+`", categoryIds: ["bogus"]) { ok errors }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"updateBook": {"ok": false, "errors": ["Invalid category ID: bogus"]}}`, data)
	f.books.AssertNotCalled(t, "PartialUpdate", mock.Anything, mock.Anything)
}

func TestUpdateBook_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	f.books.On("PartialUpdate", int64(1), mock.MatchedBy(func(in bookmodel.BookInput) bool {
		return in.Price.Value.Equal(decimal.RequireFromString("123456.78"))
	})).Return(nil, apperr.FieldErrors{
		"price":        {"Ensure that there are no more than 6 digits in total."},
		"details.isbn": {bookmodel.MsgDuplicateISBN},
	}.Err())

	data, errs := f.run(t, loggedIn(), `mutation {
		updateBook(id: "`+gid(typeBook, "1")+`", price: "123456.78") { ok errors }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"updateBook": {"ok": false, "errors": [
		"details.isbn: Book details with this isbn already exists.",
		"price: Ensure that there are no more than 6 digits in total."
	]}}`, data)
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	f.books.On("Delete", int64(1)).Return(nil)
	f.books.On("Delete", int64(2)).Return(apperr.NotFound(bookmodel.ResourceName, int64(2)))
	f.books.On("Delete", int64(3)).Return(errors.New("connection reset"))

	data, _ := f.run(t, loggedIn(), `mutation { deleteBook(id: "`+gid(typeBook, "1")+`") { ok deletedId } }`)
	assert.JSONEq(t, `{"deleteBook": {"ok": true, "deletedId": "`+gid(typeBook, "1")+`"}}`, data)

	data, _ = f.run(t, loggedIn(), `mutation { deleteBook(id: "`+gid(typeBook, "2")+`") { ok errors } }`)
	assert.JSONEq(t, `{"deleteBook": {"ok": false, "errors": ["Book with ID `+gid(typeBook, "2")+` does not exist."]}}`, data)

	data, _ = f.run(t, loggedIn(), `mutation { deleteBook(id: "`+gid(typeBook, "3")+`") { ok errors } }`)
	assert.JSONEq(t, `{"deleteBook": {"ok": false, "errors": ["Unexpected error while deleting book."]}}`, data)

	data, _ = f.run(t, loggedIn(), `mutation { deleteBook(id: "nope") { ok errors } }`)
	assert.JSONEq(t, `{"deleteBook": {"ok": false, "errors": ["Invalid book ID."]}}`, data)
}

func TestFlattenFields(t *testing.T) {
	got := flattenFields(apperr.FieldErrors{
		"title":               {"This field may not be blank."},
		apperr.NonFieldErrors: {"The fields title, author must make a unique set."},
		"author":              {"Invalid pk \"9\" - object does not exist."},
	})
	assert.Equal(t, []string{
		"author: Invalid pk \"9\" - object does not exist.",
		"The fields title, author must make a unique set.",
		"title: This field may not be blank.",
	}, got)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	f.authors.On("List", mock.Anything).Return([]authormodel.Author{}, int64(0), nil)

	r := gin.New()
	h := NewHandler(f.schema)
	r.GET("/graphql/", h.Serve)
	r.POST("/graphql/", h.Serve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"message":"Must provide query string."}]}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/graphql/",
		strings.NewReader(`{"query":"{ allAuthors { edges { node { id } } } }"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"allAuthors":{"edges":[]}}}`, w.Body.String())
}
