package relay

import "errors"

var (
	// ErrNoInboundOffer startup is rejected: no signaling document or no
	// offer field for the session identifier
	ErrNoInboundOffer = errors.New("relay: no inbound offer for session")
	// ErrNegotiation the transport engine rejected a description
	ErrNegotiation = errors.New("relay: negotiation failed")
	// ErrQueueClosed the frame queue was closed by shutdown
	ErrQueueClosed = errors.New("relay: frame queue closed")
)
