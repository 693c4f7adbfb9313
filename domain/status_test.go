package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeliveryStatus_Forward_Transitions_Only(t *testing.T) {
	req := require.New(t)

	req.True(StatusSent.CanAdvanceTo(StatusDelivered))
	req.True(StatusSent.CanAdvanceTo(StatusRead))
	req.True(StatusDelivered.CanAdvanceTo(StatusRead))

	// Equal or backward requests are idempotent no-ops.
	req.False(StatusSent.CanAdvanceTo(StatusSent))
	req.False(StatusDelivered.CanAdvanceTo(StatusDelivered))
	req.False(StatusDelivered.CanAdvanceTo(StatusSent))
	req.False(StatusRead.CanAdvanceTo(StatusRead))
	req.False(StatusRead.CanAdvanceTo(StatusDelivered))
	req.False(StatusRead.CanAdvanceTo(StatusSent))
}

func TestDeliveryStatus_Unknown_Status_Never_Advances(t *testing.T) {
	req := require.New(t)

	req.False(DeliveryStatus("archived").CanAdvanceTo(StatusRead))
	req.False(StatusSent.CanAdvanceTo(DeliveryStatus("archived")))
	req.False(DeliveryStatus("archived").Valid())
	req.True(StatusRead.Valid())
}

func TestMessage_Broadcast(t *testing.T) {
	req := require.New(t)

	req.True(Message{}.Broadcast())
	req.False(Message{RecipientID: "some-id"}.Broadcast())
}
