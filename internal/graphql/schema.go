// Package graphql exposes the catalog through a Relay-style GraphQL schema
// backed by the same resource services as the REST API.
package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"

	authormodel "bookshelf-backend/internal/domains/author/model"
	authorsvc "bookshelf-backend/internal/domains/author/service"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	booksvc "bookshelf-backend/internal/domains/book/service"
	categorymodel "bookshelf-backend/internal/domains/category/model"
	categorysvc "bookshelf-backend/internal/domains/category/service"
	"bookshelf-backend/internal/shared/apperr"
)

// Object type names are part of every global id.
const (
	typeAuthor   = "AuthorType"
	typeCategory = "CategoryType"
	typeBook     = "BookType"
)

// Services are the resource services the schema resolves against.
type Services struct {
	Authors    authorsvc.ServiceInterface
	Categories categorysvc.ServiceInterface
	Books      booksvc.ServiceInterface
	MediaURL   string
}

type schemaBuilder struct {
	Services

	node *relay.NodeDefinitions

	authorType     *graphql.Object
	categoryType   *graphql.Object
	bookType       *graphql.Object
	detailsType    *graphql.Object
	statisticsType *graphql.Object

	authorConn   *relay.GraphQLConnectionDefinitions
	categoryConn *relay.GraphQLConnectionDefinitions
	bookConn     *relay.GraphQLConnectionDefinitions
}

// NewSchema builds the query and mutation schema.
func NewSchema(svc Services) (graphql.Schema, error) {
	b := &schemaBuilder{Services: svc}

	b.node = relay.NewNodeDefinitions(relay.NodeDefinitionsConfig{
		IDFetcher: func(id string, info graphql.ResolveInfo, ctx context.Context) (interface{}, error) {
			return b.fetchNode(ctx, id)
		},
		TypeResolve: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch p.Value.(type) {
			case *authormodel.Author:
				return b.authorType
			case *categorymodel.Category:
				return b.categoryType
			case *bookmodel.Book:
				return b.bookType
			}
			return nil
		},
	})

	b.buildTypes()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.queryType(),
		Mutation: b.mutationType(),
	})
}

// fetchNode resolves any global id. Unknown rows resolve to null.
func (b *schemaBuilder) fetchNode(ctx context.Context, globalID string) (interface{}, error) {
	gid := relay.FromGlobalID(globalID)
	if gid == nil {
		return nil, errors.New("Invalid ID.")
	}

	switch gid.Type {
	case typeAuthor:
		return b.author(ctx, globalID)
	case typeCategory:
		return b.category(ctx, globalID)
	case typeBook:
		return b.book(ctx, globalID)
	}
	return nil, errors.New("Invalid ID.")
}

func (b *schemaBuilder) author(ctx context.Context, globalID string) (interface{}, error) {
	id, ok := decodeID(globalID, typeAuthor)
	if !ok {
		return nil, errors.New(authorEntity.invalidID())
	}
	a, err := b.Authors.GetByID(ctx, id)
	return nodeOrNull(a, err)
}

func (b *schemaBuilder) category(ctx context.Context, globalID string) (interface{}, error) {
	id, ok := decodeID(globalID, typeCategory)
	if !ok {
		return nil, errors.New(categoryEntity.invalidID())
	}
	c, err := b.Categories.GetByID(ctx, id)
	return nodeOrNull(c, err)
}

func (b *schemaBuilder) book(ctx context.Context, globalID string) (interface{}, error) {
	id, ok := decodeID(globalID, typeBook)
	if !ok {
		return nil, errors.New(bookEntity.invalidID())
	}
	bk, err := b.Books.GetByID(ctx, id)
	return nodeOrNull(bk, err)
}

// nodeOrNull turns a missing row into an untyped nil so the field resolves
// to null instead of an empty object.
func nodeOrNull[T any](v *T, err error) (interface{}, error) {
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v, nil
}

func (b *schemaBuilder) buildTypes() {
	b.buildAuthorType()
	b.buildCategoryType()
	b.buildBookType()
	b.buildStatisticsType()

	b.authorConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: typeAuthor, NodeType: b.authorType})
	b.categoryConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: typeCategory, NodeType: b.categoryType})
	b.bookConn = relay.ConnectionDefinitions(relay.ConnectionConfig{Name: typeBook, NodeType: b.bookType})
}

func (b *schemaBuilder) buildAuthorType() {
	b.authorType = graphql.NewObject(graphql.ObjectConfig{
		Name:       typeAuthor,
		Interfaces: []*graphql.Interface{b.node.NodeInterface},
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": globalIDField(typeAuthor, func(src interface{}) int64 {
					return src.(*authormodel.Author).ID
				}),
				"firstName": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*authormodel.Author).FirstName, nil
					},
				},
				"lastName": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*authormodel.Author).LastName, nil
					},
				},
				"books": {
					Type: graphql.NewNonNull(b.bookConn.ConnectionType),
					Args: relay.ConnectionArgs,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id := p.Source.(*authormodel.Author).ID
						return b.bookConnection(p, bookmodel.BookFilter{AuthorID: &id})
					},
				},
			}
		}),
	})
}

func (b *schemaBuilder) buildCategoryType() {
	b.categoryType = graphql.NewObject(graphql.ObjectConfig{
		Name:       typeCategory,
		Interfaces: []*graphql.Interface{b.node.NodeInterface},
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": globalIDField(typeCategory, func(src interface{}) int64 {
					return src.(*categorymodel.Category).ID
				}),
				"name": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*categorymodel.Category).Name, nil
					},
				},
				"description": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*categorymodel.Category).Description, nil
					},
				},
				"books": {
					Type: graphql.NewNonNull(b.bookConn.ConnectionType),
					Args: relay.ConnectionArgs,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id := p.Source.(*categorymodel.Category).ID
						return b.bookConnection(p, bookmodel.BookFilter{CategoryID: &id})
					},
				},
			}
		}),
	})
}

var bookFormatEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "BookBookFormat",
	Values: graphql.EnumValueConfigMap{
		string(bookmodel.FormatHardback):  {Value: string(bookmodel.FormatHardback), Description: bookmodel.FormatHardback.Label()},
		string(bookmodel.FormatPaperback): {Value: string(bookmodel.FormatPaperback), Description: bookmodel.FormatPaperback.Label()},
		string(bookmodel.FormatEbook):     {Value: string(bookmodel.FormatEbook), Description: bookmodel.FormatEbook.Label()},
	},
})

func (b *schemaBuilder) buildBookType() {
	b.detailsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BookDetailsType",
		Fields: graphql.Fields{
			"isbn": {
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deref(p.Source.(*bookmodel.Details).ISBN), nil
				},
			},
			"numberOfPages": {
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deref(p.Source.(*bookmodel.Details).NumberOfPages), nil
				},
			},
			"language": {
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deref(p.Source.(*bookmodel.Details).Language), nil
				},
			},
			"publisher": {
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deref(p.Source.(*bookmodel.Details).Publisher), nil
				},
			},
		},
	})

	b.bookType = graphql.NewObject(graphql.ObjectConfig{
		Name:       typeBook,
		Interfaces: []*graphql.Interface{b.node.NodeInterface},
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": globalIDField(typeBook, func(src interface{}) int64 {
					return src.(*bookmodel.Book).ID
				}),
				"title": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).Title, nil
					},
				},
				"author": {
					Type: graphql.NewNonNull(b.authorType),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						bk := p.Source.(*bookmodel.Book)
						return &authormodel.Author{
							ID:        bk.AuthorID,
							FirstName: bk.AuthorFirstName,
							LastName:  bk.AuthorLastName,
						}, nil
					},
				},
				"categories": {
					Type: graphql.NewNonNull(b.categoryConn.ConnectionType),
					Args: relay.ConnectionArgs,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id := p.Source.(*bookmodel.Book).ID
						return b.categoryConnection(p, categorymodel.CategoryFilter{BookID: &id})
					},
				},
				"description": {
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).Description, nil
					},
				},
				"price": {
					Type: graphql.NewNonNull(decimalScalar),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).Price.StringFixed(bookmodel.PriceDecimalPlaces), nil
					},
				},
				"publicationDate": {
					Type: graphql.NewNonNull(dateScalar),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).PublicationDate, nil
					},
				},
				"bookFormat": {
					Type: graphql.NewNonNull(bookFormatEnum),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return string(p.Source.(*bookmodel.Book).Format), nil
					},
				},
				"coverImage": {
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						key := p.Source.(*bookmodel.Book).CoverImage
						if key == nil {
							return nil, nil
						}
						return b.MediaURL + *key, nil
					},
				},
				"details": {
					Type: b.detailsType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						d := p.Source.(*bookmodel.Book).Details
						if d == nil {
							return nil, nil
						}
						return d, nil
					},
				},
			}
		}),
	})
}

func (b *schemaBuilder) buildStatisticsType() {
	perAuthor := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthorBookCountType",
		Fields: graphql.Fields{
			"firstName": {
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(bookmodel.AuthorBookCount).FirstName, nil
				},
			},
			"lastName": {
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(bookmodel.AuthorBookCount).LastName, nil
				},
			},
			"numBooks": {
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(bookmodel.AuthorBookCount).NumBooks), nil
				},
			},
		},
	})

	b.statisticsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BookStatisticsType",
		Fields: graphql.Fields{
			"averagePrice": {
				Type: decimalScalar,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*bookmodel.Statistics).AveragePrice, nil
				},
			},
			"totalBooks": {
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(*bookmodel.Statistics).TotalBooks), nil
				},
			},
			"minPrice": {
				Type: decimalScalar,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*bookmodel.Statistics).MinPrice, nil
				},
			},
			"maxPrice": {
				Type: decimalScalar,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*bookmodel.Statistics).MaxPrice, nil
				},
			},
			"booksPerAuthor": {
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(perAuthor))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					counts := p.Source.(*bookmodel.Statistics).BooksPerAuthor
					out := make([]interface{}, len(counts))
					for i, c := range counts {
						out[i] = c
					}
					return out, nil
				},
			},
		},
	})
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
