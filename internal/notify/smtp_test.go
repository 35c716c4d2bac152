package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/qgraph/internal/dag"
)

func TestNotifyFailure_NoopWithoutRecipients(t *testing.T) {
	n := NewSMTPNotifier("localhost:25", "qgraph@example.com", nil)
	err := n.NotifyFailure(context.Background(), nil)
	assert.NoError(t, err)
}

func TestNotifyFinal_NoopWithoutRecipients(t *testing.T) {
	n := NewSMTPNotifier("localhost:25", "qgraph@example.com", nil)
	err := n.NotifyFinal(context.Background(), dag.New())
	assert.NoError(t, err)
}
