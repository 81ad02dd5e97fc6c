package solana

import "context"

// WSClient defines Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeSignature waits for a single notification that the signature
	// reached the subscription commitment. The node drops the subscription
	// after delivering it.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureNotification, error)

	// Unsubscribe abandons a signature subscription that has not fired.
	Unsubscribe(signature string)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification represents a signatureSubscribe message.
type SignatureNotification struct {
	Signature string
	Slot      uint64
	Err       interface{} // non-nil when the transaction failed
}
