package validate

import (
	"strings"

	"github.com/smileynet/roster/internal/user"
)

// Errors maps each failing field to its message. A nil or empty Errors
// means the record passed.
type Errors map[user.Field]string

// OK reports whether no field failed.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Get returns the message for f, or "" when f passed.
func (e Errors) Get(f user.Field) string {
	return e[f]
}

// Fields returns the failing fields in form order.
func (e Errors) Fields() []user.Field {
	var out []user.Field
	for _, f := range user.Fields {
		if _, ok := e[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Messages returns the messages in form order.
func (e Errors) Messages() []string {
	fields := e.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = e[f]
	}
	return out
}

// String joins the messages with "; ".
func (e Errors) String() string {
	return strings.Join(e.Messages(), "; ")
}
