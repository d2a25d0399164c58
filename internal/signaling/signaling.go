package signaling

import (
	"context"
	"errors"
)

// Collection names inside a call document. The side that authored the
// current offer writes into offerCandidates; the answering side writes
// into answerCandidates.
const (
	CollectionOfferCandidates  = "offerCandidates"
	CollectionAnswerCandidates = "answerCandidates"
)

var (
	// ErrNotFound no document exists for the identifier
	ErrNotFound = errors.New("signaling: document not found")
	// ErrUnavailable the store could not be reached; callers other than
	// the initial offer read treat this as non-fatal
	ErrUnavailable = errors.New("signaling: store unavailable")
	// ErrClosed the subscription or store handle was closed
	ErrClosed = errors.New("signaling: closed")
)

// Description carries one SDP session description.
type Description struct {
	SDP  string `json:"sdp"`
	Type string `json:"type"`
}

// DocumentはSession Identifierごとに1つ存在するシグナリング文書です。
// offer/answerはそれぞれ生成した側が一度だけ書き込みます。
type Document struct {
	Offer  *Description `json:"offer,omitempty"`
	Answer *Description `json:"answer,omitempty"`
}

// CandidateRecord is one append-only entry in a candidate collection.
type CandidateRecord struct {
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdpMid"`
	SDPMLineIndex uint16 `json:"sdpMLineIndex"`
}

// Unsubscribe stops delivery for one subscription. Safe to call more
// than once.
type Unsubscribe func()

// Store is the signaling relay surface. Change-feed callbacks run on
// the store's listener goroutine, never on the caller's; consumers that
// touch session state must marshal the work themselves.
type Store interface {
	// GetDocument returns the document for id, or ErrNotFound.
	GetDocument(ctx context.Context, id string) (Document, error)

	// SetDocument writes doc. With merge, nil fields are left untouched;
	// without merge the stored document is replaced.
	SetDocument(ctx context.Context, id string, doc Document, merge bool) error

	// AppendToCollection appends one record to an ordered sub-collection.
	AppendToCollection(ctx context.Context, id, collection string, record CandidateRecord) error

	// SubscribeToCollection delivers every record appended to the
	// collection, in append order. With fromStart, records already
	// present are delivered first; otherwise only records appended after
	// the subscription is established are delivered.
	SubscribeToCollection(ctx context.Context, id, collection string, fromStart bool, onAdded func(CandidateRecord)) (Unsubscribe, error)

	// SubscribeToDocument delivers the current document (when present)
	// followed by every subsequent change.
	SubscribeToDocument(ctx context.Context, id string, onChanged func(Document)) (Unsubscribe, error)

	// DeleteCollection removes a sub-collection and all its records.
	DeleteCollection(ctx context.Context, id, collection string) error

	// DeleteDocument removes the document itself.
	DeleteDocument(ctx context.Context, id string) error
}
