package websockets

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeTransactionUpdate is for messages that reflect a ledger
	// transaction status change.
	MessageTypeTransactionUpdate MessageType = "transactionUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// TransactionUpdatePayload is the payload for a transactionUpdate message.
type TransactionUpdatePayload struct {
	TransactionID string `json:"transaction_id"`
	Service       string `json:"service"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}
