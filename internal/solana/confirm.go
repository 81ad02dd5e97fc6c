package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default confirmation settings.
const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
)

// Confirmer waits for submitted transactions to reach a commitment level.
// It listens on a signature subscription when a WebSocket client is
// available and polls getSignatureStatuses in parallel, so a dropped
// socket or a confirmation that happened before subscribing is still seen.
type Confirmer struct {
	rpc          RPCClient
	ws           WSClient
	commitment   string
	timeout      time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// ConfirmOption configures Confirmer.
type ConfirmOption func(*Confirmer)

// WithConfirmTimeout bounds the total wait.
func WithConfirmTimeout(d time.Duration) ConfirmOption {
	return func(c *Confirmer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPollInterval sets the status polling interval.
func WithPollInterval(d time.Duration) ConfirmOption {
	return func(c *Confirmer) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithConfirmCommitment sets the commitment to wait for.
func WithConfirmCommitment(commitment string) ConfirmOption {
	return func(c *Confirmer) {
		if commitment != "" {
			c.commitment = commitment
		}
	}
}

// WithConfirmLogger sets the logger.
func WithConfirmLogger(logger *zap.Logger) ConfirmOption {
	return func(c *Confirmer) {
		c.logger = logger
	}
}

// NewConfirmer creates a Confirmer. ws may be nil, in which case only
// polling is used.
func NewConfirmer(rpc RPCClient, ws WSClient, opts ...ConfirmOption) *Confirmer {
	c := &Confirmer{
		rpc:          rpc,
		ws:           ws,
		commitment:   DefaultCommitment,
		timeout:      DefaultConfirmTimeout,
		pollInterval: DefaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Confirm blocks until signature reaches the configured commitment.
// Returns *TxError if the transaction failed on chain and ErrConfirmTimeout
// if it was not confirmed in time.
func (c *Confirmer) Confirm(ctx context.Context, signature string) error {
	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var notifications <-chan SignatureNotification
	if c.ws != nil {
		ch, err := c.ws.SubscribeSignature(waitCtx, signature)
		if err != nil {
			c.logger.Debug("signature subscription unavailable, polling only",
				zap.String("signature", signature), zap.Error(err))
		} else {
			notifications = ch
			defer c.ws.Unsubscribe(signature)
		}
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	if done, err := c.poll(waitCtx, signature); done {
		return err
	}

	for {
		select {
		case n, ok := <-notifications:
			if !ok {
				// Client closed; keep polling
				notifications = nil
				continue
			}
			if n.Err != nil {
				return &TxError{Signature: signature, Err: n.Err}
			}
			return nil

		case <-ticker.C:
			if done, err := c.poll(waitCtx, signature); done {
				return err
			}

		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s after %s", ErrConfirmTimeout, signature, c.timeout)
		}
	}
}

// poll checks the signature status once. done is true when the outcome is
// final.
func (c *Confirmer) poll(ctx context.Context, signature string) (done bool, err error) {
	status, err := c.rpc.GetSignatureStatus(ctx, signature)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		c.logger.Debug("signature status poll failed",
			zap.String("signature", signature), zap.Error(err))
		return false, nil
	}
	if status == nil {
		return false, nil
	}
	if status.Err != nil {
		return true, &TxError{Signature: signature, Err: status.Err}
	}
	return status.Reached(c.commitment), nil
}
