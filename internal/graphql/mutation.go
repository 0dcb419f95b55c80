package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	authormodel "bookshelf-backend/internal/domains/author/model"
	bookmodel "bookshelf-backend/internal/domains/book/model"
	categorymodel "bookshelf-backend/internal/domains/category/model"
	"bookshelf-backend/internal/shared/identity"
	"bookshelf-backend/internal/shared/optional"
)

const (
	verbSaving   = "saving"
	verbDeleting = "deleting"
)

// payload is the result of every mutation. Domain failures never become
// GraphQL errors; they are reported through ok and errors.
type payload map[string]interface{}

func success(key string, value interface{}) payload {
	return payload{key: value, "ok": true, "errors": nil}
}

func failure(messages ...string) payload {
	return payload{"ok": false, "errors": messages}
}

func payloadType(name, entityKey string, entityType *graphql.Object) *graphql.Object {
	fields := graphql.Fields{
		"ok":     {Type: graphql.Boolean},
		"errors": {Type: graphql.NewList(graphql.String)},
	}
	if entityType != nil {
		fields[entityKey] = &graphql.Field{Type: entityType}
	} else {
		fields["deletedId"] = &graphql.Field{Type: graphql.ID}
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fields})
}

// authenticated runs fn only for an identified caller.
func authenticated(fn func(p graphql.ResolveParams) payload) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if err := identity.Require(p.Context); err != nil {
			return map[string]interface{}(failure(msgLoginRequired)), nil
		}
		return map[string]interface{}(fn(p)), nil
	}
}

func (b *schemaBuilder) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createAuthor": {
				Type: payloadType("CreateAuthor", "author", b.authorType),
				Args: graphql.FieldConfigArgument{
					"firstName": {Type: graphql.NewNonNull(graphql.String)},
					"lastName":  {Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: authenticated(b.createAuthor),
			},
			"updateAuthor": {
				Type: payloadType("UpdateAuthor", "author", b.authorType),
				Args: graphql.FieldConfigArgument{
					"id":        {Type: graphql.NewNonNull(graphql.ID)},
					"firstName": {Type: graphql.String},
					"lastName":  {Type: graphql.String},
				},
				Resolve: authenticated(b.updateAuthor),
			},
			"deleteAuthor": {
				Type:    payloadType("DeleteAuthor", "", nil),
				Args:    idArgs(),
				Resolve: authenticated(b.deleteAuthor),
			},
			"createCategory": {
				Type: payloadType("CreateCategory", "category", b.categoryType),
				Args: graphql.FieldConfigArgument{
					"name":        {Type: graphql.NewNonNull(graphql.String)},
					"description": {Type: graphql.String},
				},
				Resolve: authenticated(b.createCategory),
			},
			"updateCategory": {
				Type: payloadType("UpdateCategory", "category", b.categoryType),
				Args: graphql.FieldConfigArgument{
					"id":          {Type: graphql.NewNonNull(graphql.ID)},
					"name":        {Type: graphql.String},
					"description": {Type: graphql.String},
				},
				Resolve: authenticated(b.updateCategory),
			},
			"deleteCategory": {
				Type:    payloadType("DeleteCategory", "", nil),
				Args:    idArgs(),
				Resolve: authenticated(b.deleteCategory),
			},
			"createBook": {
				Type:    payloadType("CreateBook", "book", b.bookType),
				Args:    bookArgs(true),
				Resolve: authenticated(b.createBook),
			},
			"updateBook": {
				Type:    payloadType("UpdateBook", "book", b.bookType),
				Args:    bookArgs(false),
				Resolve: authenticated(b.updateBook),
			},
			"deleteBook": {
				Type:    payloadType("DeleteBook", "", nil),
				Args:    idArgs(),
				Resolve: authenticated(b.deleteBook),
			},
		},
	})
}

func stringArg(args map[string]interface{}, name string) optional.Value[string] {
	if v, ok := optionalString(args, name); ok {
		return optional.Of(v)
	}
	return optional.Value[string]{}
}

func (b *schemaBuilder) createAuthor(p graphql.ResolveParams) payload {
	a, err := b.Authors.Create(p.Context, authormodel.AuthorInput{
		FirstName: stringArg(p.Args, "firstName"),
		LastName:  stringArg(p.Args, "lastName"),
	})
	if err != nil {
		return failure(authorEntity.mutationErrors(err, verbSaving, "")...)
	}
	return success("author", a)
}

func (b *schemaBuilder) updateAuthor(p graphql.ResolveParams) payload {
	gid := p.Args["id"].(string)
	id, ok := decodeID(gid, typeAuthor)
	if !ok {
		return failure(authorEntity.invalidID())
	}
	a, err := b.Authors.PartialUpdate(p.Context, id, authormodel.AuthorInput{
		FirstName: stringArg(p.Args, "firstName"),
		LastName:  stringArg(p.Args, "lastName"),
	})
	if err != nil {
		return failure(authorEntity.mutationErrors(err, verbSaving, gid)...)
	}
	return success("author", a)
}

func (b *schemaBuilder) deleteAuthor(p graphql.ResolveParams) payload {
	return b.deleteNode(p, typeAuthor, authorEntity, b.Authors.Delete)
}

func (b *schemaBuilder) createCategory(p graphql.ResolveParams) payload {
	c, err := b.Categories.Create(p.Context, categorymodel.CategoryInput{
		Name:        stringArg(p.Args, "name"),
		Description: stringArg(p.Args, "description"),
	})
	if err != nil {
		return failure(categoryEntity.mutationErrors(err, verbSaving, "")...)
	}
	return success("category", c)
}

func (b *schemaBuilder) updateCategory(p graphql.ResolveParams) payload {
	gid := p.Args["id"].(string)
	id, ok := decodeID(gid, typeCategory)
	if !ok {
		return failure(categoryEntity.invalidID())
	}
	c, err := b.Categories.PartialUpdate(p.Context, id, categorymodel.CategoryInput{
		Name:        stringArg(p.Args, "name"),
		Description: stringArg(p.Args, "description"),
	})
	if err != nil {
		return failure(categoryEntity.mutationErrors(err, verbSaving, gid)...)
	}
	return success("category", c)
}

func (b *schemaBuilder) deleteCategory(p graphql.ResolveParams) payload {
	return b.deleteNode(p, typeCategory, categoryEntity, b.Categories.Delete)
}

func (b *schemaBuilder) deleteNode(p graphql.ResolveParams, typeName string, e entity, del func(context.Context, int64) error) payload {
	gid := p.Args["id"].(string)
	id, ok := decodeID(gid, typeName)
	if !ok {
		return failure(e.invalidID())
	}
	if err := del(p.Context, id); err != nil {
		return failure(e.mutationErrors(err, verbDeleting, gid)...)
	}
	return payload{"ok": true, "errors": nil, "deletedId": gid}
}

var bookDetailsInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "BookDetailsInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"isbn":          {Type: graphql.String},
		"numberOfPages": {Type: graphql.Int},
		"language":      {Type: graphql.String},
		"publisher":     {Type: graphql.String},
	},
})

func bookArgs(create bool) graphql.FieldConfigArgument {
	required := func(t graphql.Input) graphql.Input {
		if create {
			return graphql.NewNonNull(t)
		}
		return t
	}
	args := graphql.FieldConfigArgument{
		"title":           {Type: required(graphql.String)},
		"authorId":        {Type: required(graphql.ID)},
		"categoryIds":     {Type: required(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		"description":     {Type: graphql.String},
		"price":           {Type: required(decimalScalar)},
		"publicationDate": {Type: required(dateScalar)},
		"bookFormat":      {Type: graphql.String},
		"details":         {Type: bookDetailsInput},
	}
	if !create {
		args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	}
	return args
}

// bookInput converts mutation arguments. The returned message is set when
// a referenced global id cannot be decoded.
func bookInput(args map[string]interface{}) (bookmodel.BookInput, string) {
	in := bookmodel.BookInput{
		Title:       stringArg(args, "title"),
		Description: stringArg(args, "description"),
		Format:      stringArg(args, "bookFormat"),
	}

	if gid, ok := optionalString(args, "authorId"); ok {
		id, ok := decodeID(gid, typeAuthor)
		if !ok {
			return in, authorEntity.invalidID()
		}
		in.AuthorID = optional.Of(id)
	}

	if raw, ok := args["categoryIds"].([]interface{}); ok {
		ids := make([]int64, 0, len(raw))
		for _, v := range raw {
			gid, _ := v.(string)
			id, ok := decodeID(gid, typeCategory)
			if !ok {
				return in, fmt.Sprintf("Invalid category ID: %s", gid)
			}
			ids = append(ids, id)
		}
		in.CategoryIDs = optional.Of(ids)
	}

	if v, ok := args["price"].(decimal.Decimal); ok {
		in.Price = optional.Of(v)
	}
	if v, ok := args["publicationDate"].(time.Time); ok {
		in.PublicationDate = optional.Of(v)
	}

	if raw, ok := args["details"].(map[string]interface{}); ok {
		d := bookmodel.DetailsInput{
			ISBN:      stringArg(raw, "isbn"),
			Language:  stringArg(raw, "language"),
			Publisher: stringArg(raw, "publisher"),
		}
		if n, ok := raw["numberOfPages"].(int); ok {
			d.NumberOfPages = optional.Of(n)
		}
		in.Details = optional.Of(d)
	}
	return in, ""
}

func (b *schemaBuilder) createBook(p graphql.ResolveParams) payload {
	in, msg := bookInput(p.Args)
	if msg != "" {
		return failure(msg)
	}
	bk, err := b.Books.Create(p.Context, in)
	if err != nil {
		return failure(bookEntity.mutationErrors(err, verbSaving, "")...)
	}
	return success("book", bk)
}

func (b *schemaBuilder) updateBook(p graphql.ResolveParams) payload {
	gid := p.Args["id"].(string)
	id, ok := decodeID(gid, typeBook)
	if !ok {
		return failure(bookEntity.invalidID())
	}
	in, msg := bookInput(p.Args)
	if msg != "" {
		return failure(msg)
	}
	bk, err := b.Books.PartialUpdate(p.Context, id, in)
	if err != nil {
		return failure(bookEntity.mutationErrors(err, verbSaving, gid)...)
	}
	return success("book", bk)
}

func (b *schemaBuilder) deleteBook(p graphql.ResolveParams) payload {
	return b.deleteNode(p, typeBook, bookEntity, b.Books.Delete)
}
