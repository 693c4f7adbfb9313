package domain

// SendIntent is an inbound request to relay one message.
// The recipient is a closed variant: an explicit RecipientID, a
// Recipient display-name hint to resolve, or neither (broadcast).
type SendIntent struct {
	Sender      Identity
	Recipient   string
	RecipientID string
	Content     string
}
