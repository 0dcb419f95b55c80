package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Decimal travels as a string so prices keep their scale.
var decimalScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "Fixed-point decimal encoded as a string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			return v
		case decimal.Decimal:
			return v.String()
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			return v.String()
		case decimal.NullDecimal:
			if !v.Valid {
				return nil
			}
			return v.Decimal.String()
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				return d
			}
		case float64:
			return decimal.NewFromFloat(v)
		case int:
			return decimal.NewFromInt(int64(v))
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		var raw string
		switch v := valueAST.(type) {
		case *ast.StringValue:
			raw = v.Value
		case *ast.IntValue:
			raw = v.Value
		case *ast.FloatValue:
			raw = v.Value
		default:
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil
		}
		return d
	},
})

// Date is a calendar date in YYYY-MM-DD form.
var dateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "Calendar date formatted as YYYY-MM-DD.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.Format(dateLayout)
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.Format(dateLayout)
		case string:
			return v
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseDate(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		s, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		return parseDate(s.Value)
	},
})

func parseDate(s string) interface{} {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return t
}
