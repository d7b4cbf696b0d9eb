package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAndAutoDismiss(t *testing.T) {
	c := New(30 * time.Millisecond)
	c.Error("failed to save")

	n := c.Current()
	require.NotNil(t, n)
	assert.Equal(t, SeverityError, n.Severity)
	assert.Equal(t, "failed to save", n.Message)

	assert.Eventually(t, func() bool { return c.Current() == nil },
		time.Second, 5*time.Millisecond)
}

func TestPostReplacesImmediately(t *testing.T) {
	c := New(30 * time.Millisecond)
	c.Error("first")
	c.Success("second")

	n := c.Current()
	require.NotNil(t, n)
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, SeveritySuccess, n.Severity)
}

func TestReplacementOutlivesOldTimer(t *testing.T) {
	c := New(40 * time.Millisecond)
	c.Error("first")
	time.Sleep(25 * time.Millisecond)
	c.Success("second")

	// The first message's timer fires now; the second must survive it.
	time.Sleep(25 * time.Millisecond)
	n := c.Current()
	require.NotNil(t, n)
	assert.Equal(t, "second", n.Message)
}

func TestRedundantDismissIsSafe(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Success("done")
	c.Dismiss()
	c.Dismiss()
	assert.Nil(t, c.Current())

	// Timer fire after manual close must no-op, and must not clear a newer
	// message either.
	c.Success("newer")
	time.Sleep(5 * time.Millisecond)
	require.NotNil(t, c.Current())
}

func TestListener(t *testing.T) {
	c := New(time.Minute)
	var got []string
	c.SetListener(func(n *Notification) {
		if n == nil {
			got = append(got, "<dismissed>")
			return
		}
		got = append(got, n.Message)
	})

	c.Success("hello")
	c.Dismiss()
	assert.Equal(t, []string{"hello", "<dismissed>"}, got)
}
