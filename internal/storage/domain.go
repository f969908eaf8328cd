package storage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fields lists every field of the student model that may appear in a
// query. Anything else is rejected with ErrInvalidField.
var Fields = []string{
	"id", "name", "dob", "age", "gender", "email",
	"phone", "address", "admission_date", "active",
}

// Operators lists the supported domain operators.
var Operators = []string{"=", "!=", "<", "<=", ">", ">=", "like", "ilike", "in"}

// ValidField reports whether name is a field of the student model.
func ValidField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// CheckFields returns ErrInvalidField (wrapped) for the first unknown name.
func CheckFields(names []string) error {
	for _, n := range names {
		if !ValidField(n) {
			return fmt.Errorf("%w: %q", ErrInvalidField, n)
		}
	}
	return nil
}

// Condition is one term of a Domain. On the wire it is the triple
// ["field", "operator", value].
type Condition struct {
	Field    string
	Operator string
	Value    any
}

// Eq builds a field = value condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Operator: "=", Value: value}
}

// Validate checks the field and the operator.
func (c Condition) Validate() error {
	if !ValidField(c.Field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, c.Field)
	}
	for _, op := range Operators {
		if op == c.Operator {
			if op == "in" {
				if _, ok := c.Value.([]any); !ok {
					return fmt.Errorf("%w: operator in needs a list", ErrInvalidQuery)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidOperator, c.Operator)
}

// MarshalJSON encodes the condition as a triple.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Field, c.Operator, c.Value})
}

// UnmarshalJSON decodes a ["field", "operator", value] triple.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: condition must be a [field, operator, value] list", ErrInvalidQuery)
	}
	if len(raw) != 3 {
		return fmt.Errorf("%w: condition must have 3 elements, got %d", ErrInvalidQuery, len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Field); err != nil {
		return fmt.Errorf("%w: condition field must be a string", ErrInvalidQuery)
	}
	if err := json.Unmarshal(raw[1], &c.Operator); err != nil {
		return fmt.Errorf("%w: condition operator must be a string", ErrInvalidQuery)
	}
	if err := json.Unmarshal(raw[2], &c.Value); err != nil {
		return fmt.Errorf("%w: condition value: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Domain is a list of conditions ANDed together. An empty domain matches
// every record.
type Domain []Condition

// Validate checks every condition.
func (d Domain) Validate() error {
	for _, c := range d {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// OrderTerm is one "field direction" pair of an order clause.
type OrderTerm struct {
	Field string
	Desc  bool
}

// ParseOrder parses an order clause such as "id desc, name". An empty
// clause gives no terms.
func ParseOrder(order string) ([]OrderTerm, error) {
	var terms []OrderTerm
	for _, part := range strings.Split(order, ",") {
		words := strings.Fields(part)
		if len(words) == 0 {
			continue
		}
		if len(words) > 2 {
			return nil, fmt.Errorf("%w: order term %q", ErrInvalidQuery, strings.TrimSpace(part))
		}

		term := OrderTerm{Field: words[0]}
		if !ValidField(term.Field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, term.Field)
		}
		if len(words) == 2 {
			switch strings.ToLower(words[1]) {
			case "asc":
			case "desc":
				term.Desc = true
			default:
				return nil, fmt.Errorf("%w: order direction %q", ErrInvalidQuery, words[1])
			}
		}
		terms = append(terms, term)
	}
	return terms, nil
}
