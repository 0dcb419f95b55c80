package model

import (
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"bookshelf-backend/internal/shared/apperr"
)

const (
	ResourceName = "book"

	MaxTitleLength     = 200
	MaxISBNLength      = 20
	MaxLanguageLength  = 50
	MaxPublisherLength = 100

	// NUMERIC(6, 2)
	PriceMaxDigits     = 6
	PriceDecimalPlaces = 2

	CoverPrefix = "book_covers/"

	MsgDuplicateTitle = "The fields title, author must make a unique set."
	MsgDuplicateISBN  = "Book details with this isbn already exists."

	ConstraintTitleAuthor = "unique_author_title"
	ConstraintISBN        = "book_details_isbn_key"
	ConstraintAuthorFK    = "books_author_id_fkey"
	ConstraintCategoryFK  = "book_categories_category_id_fkey"
)

// AffordablePrice is the exclusive upper price bound of the affordable view.
var AffordablePrice = decimal.RequireFromString("20.00")

type Format string

const (
	FormatHardback  Format = "HB"
	FormatPaperback Format = "PB"
	FormatEbook     Format = "EB"
)

var Formats = []Format{FormatHardback, FormatPaperback, FormatEbook}

func (f Format) Valid() bool {
	return slices.Contains(Formats, f)
}

func (f Format) Label() string {
	switch f {
	case FormatHardback:
		return "Hardback"
	case FormatPaperback:
		return "Paperback"
	case FormatEbook:
		return "Ebook"
	}
	return string(f)
}

// Book is the stored book together with its denormalised author and
// category names.
type Book struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	AuthorID        int64           `json:"author"`
	AuthorFirstName string          `json:"author_first_name"`
	AuthorLastName  string          `json:"author_last_name"`
	CategoryIDs     []int64         `json:"categories"`
	CategoryNames   []string        `json:"category_names"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	PublicationDate time.Time       `json:"publication_date"`
	Format          Format          `json:"book_format"`
	CoverImage      *string         `json:"cover_image"` // object key
	Details         *Details        `json:"details"`
}

func (b Book) AuthorName() string {
	return strings.TrimSpace(b.AuthorFirstName + " " + b.AuthorLastName)
}

func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, apperr.RuleNotBlank, apperr.RuleNoNullChars, apperr.MaxLength(MaxTitleLength)),
		validation.Field(&b.Description, apperr.RuleNoNullChars),
		validation.Field(&b.Price, validation.By(validatePrice)),
		validation.Field(&b.Format, validation.By(validateFormat)),
		validation.Field(&b.Details),
	)
}

// Details is the optional one-to-one extension of a book.
type Details struct {
	ISBN          *string `json:"isbn"`
	NumberOfPages *int    `json:"number_of_pages"`
	Language      *string `json:"language"`
	Publisher     *string `json:"publisher"`
}

func (d Details) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ISBN, apperr.RuleNoNullChars, apperr.MaxLength(MaxISBNLength)),
		validation.Field(&d.NumberOfPages,
			validation.Min(0).Error("Ensure this value is greater than or equal to 0."),
			apperr.RuleInt32,
		),
		validation.Field(&d.Language, apperr.RuleNoNullChars, apperr.MaxLength(MaxLanguageLength)),
		validation.Field(&d.Publisher, apperr.RuleNoNullChars, apperr.MaxLength(MaxPublisherLength)),
	)
}

func validateFormat(value any) error {
	f, _ := value.(Format)
	if !f.Valid() {
		return validation.NewError("invalid_choice", apperr.InvalidChoice(f))
	}
	return nil
}

// validatePrice enforces the NUMERIC(6, 2) precision with the same digit
// counting rules as the stored column.
func validatePrice(value any) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("invalid", apperr.MsgInvalidNumber)
	}

	digits := len(d.Coefficient().String())
	if d.Coefficient().Sign() < 0 {
		digits--
	}
	exp := int(d.Exponent())

	var total, places int
	switch {
	case exp >= 0:
		total = digits + exp
	case -exp > digits:
		total, places = -exp, -exp
	default:
		total, places = digits, -exp
	}
	whole := total - places

	switch {
	case total > PriceMaxDigits:
		return validation.NewError("max_digits", "Ensure that there are no more than 6 digits in total.")
	case places > PriceDecimalPlaces:
		return validation.NewError("max_decimal_places", "Ensure that there are no more than 2 decimal places.")
	case whole > PriceMaxDigits-PriceDecimalPlaces:
		return validation.NewError("max_whole_digits", "Ensure that there are no more than 4 digits before the decimal point.")
	}
	return nil
}
