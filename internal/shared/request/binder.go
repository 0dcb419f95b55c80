package request

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
)

const dateLayout = "2006-01-02"

// Binder converts loosely typed payload values into typed optional values,
// collecting one message per malformed field.
type Binder struct {
	values map[string]any
	form   bool
	prefix string
	errs   apperr.FieldErrors
}

// Errors returns the collected messages, nil when every field converted.
func (b *Binder) Errors() apperr.FieldErrors {
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs
}

func (b *Binder) fail(key, msg string) {
	b.errs.Add(b.prefix+key, msg)
}

// lookup returns the raw value, whether the key was sent, and whether the
// value counts as null. Empty strings in forms count as null.
func (b *Binder) lookup(key string) (any, bool, bool) {
	raw, ok := b.values[key]
	if !ok {
		return nil, false, false
	}
	if raw == nil {
		return nil, true, true
	}
	return raw, true, false
}

func (b *Binder) String(key string) optional.Value[string] {
	raw, ok, null := b.lookup(key)
	switch {
	case !ok:
		return optional.Value[string]{}
	case null:
		return optional.Null[string]()
	}
	switch v := raw.(type) {
	case string:
		return optional.Of(v)
	case json.Number:
		return optional.Of(v.String())
	default:
		b.fail(key, apperr.MsgInvalidString)
		return optional.Value[string]{}
	}
}

func (b *Binder) scalar(key string) (string, optional.Value[struct{}], bool) {
	raw, ok, null := b.lookup(key)
	switch {
	case !ok:
		return "", optional.Value[struct{}]{}, false
	case null:
		return "", optional.Null[struct{}](), false
	}
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" && b.form {
			return "", optional.Null[struct{}](), false
		}
		return s, optional.Of(struct{}{}), true
	case json.Number:
		return v.String(), optional.Of(struct{}{}), true
	default:
		return fmt.Sprint(raw), optional.Of(struct{}{}), true
	}
}

func (b *Binder) Int(key string) optional.Value[int] {
	s, state, ok := b.scalar(key)
	if !ok {
		return optional.Value[int]{Set: state.Set, Null: state.Null}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		b.fail(key, apperr.MsgInvalidInteger)
		return optional.Value[int]{}
	}
	return optional.Of(n)
}

func (b *Binder) Decimal(key string) optional.Value[decimal.Decimal] {
	s, state, ok := b.scalar(key)
	if !ok {
		return optional.Value[decimal.Decimal]{Set: state.Set, Null: state.Null}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		b.fail(key, apperr.MsgInvalidNumber)
		return optional.Value[decimal.Decimal]{}
	}
	return optional.Of(d)
}

func (b *Binder) Date(key string) optional.Value[time.Time] {
	s, state, ok := b.scalar(key)
	if !ok {
		return optional.Value[time.Time]{Set: state.Set, Null: state.Null}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		b.fail(key, apperr.MsgInvalidDate)
		return optional.Value[time.Time]{}
	}
	return optional.Of(t)
}

// PK reads a primary key reference.
func (b *Binder) PK(key string) optional.Value[int64] {
	s, state, ok := b.scalar(key)
	if !ok {
		return optional.Value[int64]{Set: state.Set, Null: state.Null}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		b.fail(key, incorrectPKType(b.values[key]))
		return optional.Value[int64]{}
	}
	return optional.Of(id)
}

// PKList reads a list of primary keys. A single form value counts as a
// one-element list.
func (b *Binder) PKList(key string) optional.Value[[]int64] {
	raw, ok, null := b.lookup(key)
	switch {
	case !ok:
		return optional.Value[[]int64]{}
	case null:
		return optional.Null[[]int64]()
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case string:
		if !b.form {
			b.fail(key, apperr.NotAList(kindOf(v)))
			return optional.Value[[]int64]{}
		}
		if strings.TrimSpace(v) != "" {
			items = []any{v}
		}
	default:
		b.fail(key, apperr.NotAList(kindOf(v)))
		return optional.Value[[]int64]{}
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		var s string
		switch v := item.(type) {
		case json.Number:
			s = v.String()
		case string:
			s = strings.TrimSpace(v)
		default:
			b.fail(key, incorrectPKType(item))
			return optional.Value[[]int64]{}
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			b.fail(key, incorrectPKType(item))
			return optional.Value[[]int64]{}
		}
		ids = append(ids, id)
	}
	return optional.Of(ids)
}

// Object returns a binder over a nested object. Errors found inside are
// reported as "key.field".
func (b *Binder) Object(key string) (*Binder, optional.Value[struct{}]) {
	raw, ok, null := b.lookup(key)
	switch {
	case !ok:
		return nil, optional.Value[struct{}]{}
	case null:
		return nil, optional.Null[struct{}]()
	}
	obj, isObj := raw.(map[string]any)
	if !isObj {
		b.fail(key, apperr.MsgInvalidObject)
		return nil, optional.Value[struct{}]{}
	}
	return &Binder{values: obj, form: b.form, prefix: b.prefix + key + ".", errs: b.errs}, optional.Of(struct{}{})
}

func incorrectPKType(v any) string {
	return fmt.Sprintf("Incorrect type. Expected pk value, received %s.", kindOf(v))
}

// kindOf names a decoded JSON value the way API clients know it.
func kindOf(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case json.Number:
		return "int"
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	default:
		return "str"
	}
}
