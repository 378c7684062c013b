package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledChannel(t *testing.T) {
	channel := Disabled("push", "push channel not configured")

	assert.Equal(t, "push", channel.Name())

	result := channel.Send(context.Background(), Payload{})
	assert.False(t, result.Delivered)
	assert.Equal(t, "push channel not configured", result.Reason)
	assert.Empty(t, result.ProviderID)
}
