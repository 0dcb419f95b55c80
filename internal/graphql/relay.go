package graphql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"
)

// maxConnectionSize caps every connection page; requests without first or
// last get this many records.
const maxConnectionSize = 100

var errInvalidCursor = errors.New("Invalid cursor.")

// decodeID returns the row id behind a global id of the given type.
func decodeID(globalID, typeName string) (int64, bool) {
	gid := relay.FromGlobalID(globalID)
	if gid == nil || gid.Type != typeName {
		return 0, false
	}
	id, err := strconv.ParseInt(gid.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func encodeID(typeName string, id int64) string {
	return relay.ToGlobalID(typeName, strconv.FormatInt(id, 10))
}

// globalIDField renders the opaque id of a node.
func globalIDField(typeName string, rowID func(source interface{}) int64) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.ID),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return encodeID(typeName, rowID(p.Source)), nil
		},
	}
}

// fetchFunc loads one window of a collection and reports its total size.
type fetchFunc[T any] func(limit, offset int) ([]T, int64, error)

// resolveConnection translates cursor arguments into an offset window,
// loads only that window and wraps it as a connection.
func resolveConnection[T any](p graphql.ResolveParams, fetch fetchFunc[T]) (*relay.Connection, error) {
	args := relay.NewConnectionArguments(p.Args)
	if args.First < -1 || args.Last < -1 {
		return nil, errors.New("Pagination arguments must be non-negative.")
	}
	for _, n := range []int{args.First, args.Last} {
		if n > maxConnectionSize {
			return nil, fmt.Errorf("Requesting %d records on the `%s` connection exceeds the limit of %d records.",
				n, p.Info.FieldName, maxConnectionSize)
		}
	}
	if args.First == -1 && args.Last == -1 {
		args.First = maxConnectionSize
	}

	start := 0
	if args.After != "" {
		off, err := relay.CursorToOffset(args.After)
		if err != nil {
			return nil, errInvalidCursor
		}
		start = off + 1
	}
	end := -1
	if args.Before != "" {
		off, err := relay.CursorToOffset(args.Before)
		if err != nil {
			return nil, errInvalidCursor
		}
		end = off
	}
	if args.First != -1 && (end == -1 || start+args.First < end) {
		end = start + args.First
	}
	if args.Last != -1 {
		if end == -1 {
			_, total, err := fetch(1, 0)
			if err != nil {
				return nil, err
			}
			end = int(total)
		}
		if end-args.Last > start {
			start = end - args.Last
		}
	}
	if end <= start {
		return relay.NewConnection(), nil
	}

	items, total, err := fetch(end-start, start)
	if err != nil {
		return nil, err
	}
	nodes := make([]interface{}, len(items))
	for i := range items {
		nodes[i] = &items[i]
	}
	return relay.ConnectionFromArraySlice(nodes, args, relay.ArraySliceMetaInfo{
		SliceStart:  start,
		ArrayLength: int(total),
	}), nil
}

// optionalString reads a string argument; absent and null arguments report false.
func optionalString(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}
