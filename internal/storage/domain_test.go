package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainJSON(t *testing.T) {
	var d Domain
	require.NoError(t, json.Unmarshal([]byte(`[["admission_date","=","2026-10-18"],["age",">",10]]`), &d))

	require.Len(t, d, 2)
	assert.Equal(t, Eq("admission_date", "2026-10-18"), d[0])
	assert.Equal(t, Condition{Field: "age", Operator: ">", Value: float64(10)}, d[1])
	assert.NoError(t, d.Validate())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[["admission_date","=","2026-10-18"],["age",">",10]]`, string(out))
}

func TestDomainRejectsMalformedConditions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not a list", `[{"field":"id"}]`, ErrInvalidQuery},
		{"two elements", `[["id","="]]`, ErrInvalidQuery},
		{"numeric field", `[[1,"=",2]]`, ErrInvalidQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Domain
			err := json.Unmarshal([]byte(tt.raw), &d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConditionValidate(t *testing.T) {
	assert.ErrorIs(t, Eq("salary", 1).Validate(), ErrInvalidField)
	assert.ErrorIs(t, Condition{Field: "age", Operator: "~", Value: 1}.Validate(), ErrInvalidOperator)
	assert.ErrorIs(t, Condition{Field: "id", Operator: "in", Value: 3}.Validate(), ErrInvalidQuery)
	assert.NoError(t, Condition{Field: "id", Operator: "in", Value: []any{1, 2}}.Validate())
}

func TestParseOrder(t *testing.T) {
	terms, err := ParseOrder("id desc, name")
	require.NoError(t, err)
	assert.Equal(t, []OrderTerm{{Field: "id", Desc: true}, {Field: "name"}}, terms)

	terms, err = ParseOrder("")
	require.NoError(t, err)
	assert.Empty(t, terms)

	_, err = ParseOrder("secret asc")
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = ParseOrder("id upward")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestInt(t *testing.T) {
	for _, v := range []any{3, int64(3), float64(3), json.Number("3")} {
		n, ok := Int(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 3, n)
	}

	_, ok := Int("3")
	assert.False(t, ok)
	_, ok = Int(nil)
	assert.False(t, ok)
}
