package graphql

import (
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"
	"github.com/shopspring/decimal"

	authormodel "bookshelf-backend/internal/domains/author/model"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	categorymodel "bookshelf-backend/internal/domains/category/model"
)

func (b *schemaBuilder) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"node": b.node.NodeField,
			"allAuthors": {
				Type: b.authorConn.ConnectionType,
				Args: relay.NewConnectionArgs(graphql.FieldConfigArgument{
					"firstName": {Type: graphql.String},
					"lastName":  {Type: graphql.String},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := authormodel.AuthorFilter{}
					filter.FirstName, _ = optionalString(p.Args, "firstName")
					filter.LastName, _ = optionalString(p.Args, "lastName")
					return resolveConnection(p, func(limit, offset int) ([]authormodel.Author, int64, error) {
						filter.Limit, filter.Offset = limit, offset
						return b.Authors.List(p.Context, filter)
					})
				},
			},
			"allCategories": {
				Type: b.categoryConn.ConnectionType,
				Args: relay.NewConnectionArgs(graphql.FieldConfigArgument{
					"name": {Type: graphql.String},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := categorymodel.CategoryFilter{}
					filter.Name, _ = optionalString(p.Args, "name")
					return b.categoryConnection(p, filter)
				},
			},
			"allBooks": {
				Type: b.bookConn.ConnectionType,
				Args: relay.NewConnectionArgs(bookFilterArgs()),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.bookConnection(p, bookFilterFromArgs(p.Args))
				},
			},
			"author": {
				Type: b.authorType,
				Args: idArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.author(p.Context, p.Args["id"].(string))
				},
			},
			"category": {
				Type: b.categoryType,
				Args: idArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.category(p.Context, p.Args["id"].(string))
				},
			},
			"book": {
				Type: b.bookType,
				Args: idArgs(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.book(p.Context, p.Args["id"].(string))
				},
			},
			"bookStatistics": {
				Type: graphql.NewNonNull(b.statisticsType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.Books.Statistics(p.Context)
				},
			},
		},
	})
}

func idArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"id": {Type: graphql.NewNonNull(graphql.ID)},
	}
}

func (b *schemaBuilder) bookConnection(p graphql.ResolveParams, filter bookmodel.BookFilter) (*relay.Connection, error) {
	return resolveConnection(p, func(limit, offset int) ([]bookmodel.Book, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return b.Books.List(p.Context, filter)
	})
}

func (b *schemaBuilder) categoryConnection(p graphql.ResolveParams, filter categorymodel.CategoryFilter) (*relay.Connection, error) {
	return resolveConnection(p, func(limit, offset int) ([]categorymodel.Category, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return b.Categories.List(p.Context, filter)
	})
}

func bookFilterArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"title":                     {Type: graphql.String},
		"title_Icontains":           {Type: graphql.String},
		"title_Istartswith":         {Type: graphql.String},
		"price":                     {Type: decimalScalar},
		"price_Gt":                  {Type: decimalScalar},
		"price_Lt":                  {Type: decimalScalar},
		"price_Gte":                 {Type: decimalScalar},
		"price_Lte":                 {Type: decimalScalar},
		"publicationDate":           {Type: dateScalar},
		"publicationDate_Year":      {Type: graphql.Int},
		"publicationDate_Year_Gt":   {Type: graphql.Int},
		"publicationDate_Year_Lt":   {Type: graphql.Int},
		"author_LastName":           {Type: graphql.String},
		"author_LastName_Icontains": {Type: graphql.String},
		"categories_Name":           {Type: graphql.String},
		"categories_Name_Icontains": {Type: graphql.String},
		"bookFormat":                {Type: graphql.String},
	}
}

func bookFilterFromArgs(args map[string]interface{}) bookmodel.BookFilter {
	str := func(name string) string {
		v, _ := optionalString(args, name)
		return strings.TrimSpace(v)
	}
	dec := func(name string) *decimal.Decimal {
		if v, ok := args[name].(decimal.Decimal); ok {
			return &v
		}
		return nil
	}
	num := func(name string) *int {
		if v, ok := args[name].(int); ok {
			return &v
		}
		return nil
	}

	f := bookmodel.BookFilter{
		Title:                  str("title"),
		TitleContains:          str("title_Icontains"),
		TitleStartsWith:        str("title_Istartswith"),
		Price:                  dec("price"),
		PriceGt:                dec("price_Gt"),
		PriceLt:                dec("price_Lt"),
		PriceGte:               dec("price_Gte"),
		PriceLte:               dec("price_Lte"),
		PublicationYear:        num("publicationDate_Year"),
		PublicationYearGt:      num("publicationDate_Year_Gt"),
		PublicationYearLt:      num("publicationDate_Year_Lt"),
		AuthorLastName:         str("author_LastName"),
		AuthorLastNameContains: str("author_LastName_Icontains"),
		CategoryName:           str("categories_Name"),
		CategoryNameContains:   str("categories_Name_Icontains"),
		Format:                 str("bookFormat"),
	}
	if v, ok := args["publicationDate"].(time.Time); ok {
		f.PublicationDate = &v
	}
	return f
}
