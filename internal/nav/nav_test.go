package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

func TestOpenRecord(t *testing.T) {
	a := OpenRecord(types.Model, 42)

	assert.Equal(t, Action{
		Type:   "ir.actions.act_window",
		Model:  "student.student",
		ResID:  42,
		View:   "form",
		Target: "current",
	}, a)

	url, err := RecordURL(a)
	require.NoError(t, err)
	assert.Equal(t, "/students/42", url)
}

func TestRecordURLUnknownModel(t *testing.T) {
	_, err := RecordURL(OpenRecord("res.partner", 1))
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestFunc(t *testing.T) {
	var got Action
	var svc Service = Func(func(_ context.Context, a Action) error {
		got = a
		return nil
	})

	require.NoError(t, svc.DoAction(context.Background(), OpenRecord(types.Model, 7)))
	assert.EqualValues(t, 7, got.ResID)
}
