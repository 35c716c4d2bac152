package qfunction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "PENDING"},
		{StatusRunning, "RUNNING"},
		{StatusDone, "DONE"},
		{StatusFailed, "FAILED"},
		{StatusSkipped, "SKIPPED"},
		{Status(99), "UNKNOWN"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.status.String())
	}
}

func TestAddOrder_Less_BySequence(t *testing.T) {
	a := AddOrder{Sequence: 1, Name: "z"}
	b := AddOrder{Sequence: 2, Name: "a"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestAddOrder_Less_TieBreaksByName(t *testing.T) {
	a := AddOrder{Sequence: 1, Name: "a"}
	b := AddOrder{Sequence: 1, Name: "b"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestAddOrder_Less_EqualIsNeitherLess(t *testing.T) {
	a := AddOrder{Sequence: 1, Name: "a"}
	assert.False(t, a.Less(a))
}
