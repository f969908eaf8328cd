package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterExpiresTransientNotifications(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := NewCenter(4 * time.Second)
	c.Now = func() time.Time { return now }

	transient := c.Add("saved", Options{Type: TypeSuccess})
	sticky := c.Add("read me", Options{Title: "Note", Sticky: true})
	require.NotEqual(t, transient.ID, sticky.ID)
	assert.Len(t, c.Active(), 2)

	now = now.Add(5 * time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, sticky.ID, active[0].ID)

	assert.True(t, c.Dismiss(sticky.ID))
	assert.False(t, c.Dismiss(sticky.ID))
	assert.Empty(t, c.Active())
}

func TestAddDefaultsType(t *testing.T) {
	c := NewCenter(time.Second)
	assert.Equal(t, TypeInfo, c.Add("hi", Options{}).Type)

	var r Recorder
	assert.NotNil(t, r.Notifications())
	r.Add("hello", Options{Type: TypeSuccess, Title: "JS Success"})

	got := r.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Message)
	assert.Equal(t, "JS Success", got[0].Title)
	assert.False(t, got[0].Sticky)
}
