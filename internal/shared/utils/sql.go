package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// Conditions collects SQL predicates with positional arguments. Each "?"
// in a predicate is replaced by the next $n placeholder.
type Conditions struct {
	preds []string
	args  []any
}

func (c *Conditions) Add(pred string, args ...any) {
	var b strings.Builder
	argIdx := 0
	for _, r := range pred {
		if r == '?' && argIdx < len(args) {
			c.args = append(c.args, args[argIdx])
			argIdx++
			fmt.Fprintf(&b, "$%d", len(c.args))
			continue
		}
		b.WriteRune(r)
	}
	c.preds = append(c.preds, b.String())
}

// Arg registers an argument without a predicate and returns its placeholder.
func (c *Conditions) Arg(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *Conditions) Empty() bool {
	return len(c.preds) == 0
}

// Where renders "WHERE a AND b", or an empty string without predicates.
func (c *Conditions) Where() string {
	if len(c.preds) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(c.preds)
}

func (c *Conditions) Args() []any {
	return c.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching s anywhere.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// StartsWith builds an ILIKE pattern matching s as a prefix.
func StartsWith(s string) string {
	return likeEscaper.Replace(s) + "%"
}
