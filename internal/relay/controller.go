package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/HMasataka/lookout/internal/signaling"
	"github.com/HMasataka/lookout/pkg/media"
)

const shutdownTimeout = 5 * time.Second

// Options wires one relay instance together. Every field is required
// except UserID, which only feeds log context here (the sink owns the
// notification side).
type Options struct {
	SessionID string
	UserID    string

	Store        signaling.Store
	NewTransport TransportFactory
	NewSource    SourceFactory
	Outbound     OutboundTrack
	Queue        *FrameQueue
	Sink         FrameSink
}

/*
Controllerは2つのNegotiatorとリレーキューを所有し、どちらかの
セッションが終端状態へ遷移した時点で全体を1回だけ停止します。
シグナリング文書の後始末もここだけが行います。
*/
type Controller struct {
	opts Options

	inbound  *Negotiator
	outbound *Negotiator

	started      atomic.Bool
	videoClaimed atomic.Bool

	failOnce sync.Once
	done     chan struct{}
	termErr  error

	shutdownOnce sync.Once

	cleanupMu sync.Mutex
	cleanups  []func()
}

func NewController(opts Options) *Controller {
	return &Controller{
		opts: opts,
		done: make(chan struct{}),
	}
}

// Run drives the relay until a terminal transport state or ctx
// cancellation, then performs shutdown. A missing inbound offer is
// rejected before any session is created.
func (c *Controller) Run(ctx context.Context) error {
	id := c.opts.SessionID

	doc, err := c.opts.Store.GetDocument(ctx, id)
	if errors.Is(err, signaling.ErrNotFound) {
		return ErrNoInboundOffer
	}
	if err != nil {
		return fmt.Errorf("failed to read signaling document: %w", err)
	}
	if doc.Offer == nil {
		return ErrNoInboundOffer
	}

	// Reset leftovers from a previous run of the same identifier: our
	// stale answer and answer candidates. The remote offer survives.
	if err := c.opts.Store.DeleteCollection(ctx, id, signaling.CollectionAnswerCandidates); err != nil {
		slog.Warn("failed to clear stale answer candidates", "session_id", id, "error", err)
	}
	if err := c.opts.Store.SetDocument(ctx, id, signaling.Document{Offer: doc.Offer}, false); err != nil {
		slog.Warn("failed to reset signaling document", "session_id", id, "error", err)
	}

	inboundTransport, err := c.opts.NewTransport()
	if err != nil {
		return fmt.Errorf("failed to create inbound transport: %w", err)
	}

	outboundTransport, err := c.opts.NewTransport()
	if err != nil {
		inboundTransport.Close()
		return fmt.Errorf("failed to create outbound transport: %w", err)
	}

	c.inbound = NewNegotiator(id, RoleInbound, inboundTransport, c.opts.Store)
	c.outbound = NewNegotiator(id, RoleOutbound, outboundTransport, c.opts.Store)
	c.started.Store(true)

	c.inbound.OnConnected(func() {
		slog.Info("inbound leg connected", "session_id", id, "user_id", c.opts.UserID)
	})
	c.outbound.OnConnected(func() {
		slog.Info("outbound leg connected", "session_id", id, "user_id", c.opts.UserID)
	})
	c.inbound.OnTerminal(func(state webrtc.PeerConnectionState) {
		c.fail(fmt.Errorf("relay: inbound transport %s", state))
	})
	c.outbound.OnTerminal(func(state webrtc.PeerConnectionState) {
		c.fail(fmt.Errorf("relay: outbound transport %s", state))
	})

	inboundTransport.SetOnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		if track.Kind() != webrtc.RTPCodecTypeVideo {
			return
		}
		if !c.claimInboundVideo() {
			slog.Warn("ignoring additional inbound video track", "session_id", id)
			return
		}

		slog.Info("inbound track received", "session_id", id, "codec", track.Codec().MimeType)

		source, err := c.opts.NewSource(inboundTransport, track)
		if err != nil {
			c.fail(fmt.Errorf("failed to open inbound media source: %w", err))
			return
		}
		go c.pumpFrames(ctx, source)
	})

	c.inbound.Start(ctx)
	c.outbound.Start(ctx)

	if _, err := c.inbound.AcceptOffer(ctx, *doc.Offer); err != nil {
		c.Shutdown()
		return err
	}

	// The shared document carries both legs, so each candidate feed
	// skips records the other leg of this process appended.
	inboundSync, err := StartSynchronizer(ctx, c.opts.Store, id, signaling.CollectionOfferCandidates, true, c.inbound,
		func(record signaling.CandidateRecord) bool {
			return c.outbound.WroteCandidate(record.Candidate)
		})
	if err != nil {
		slog.Warn("failed to subscribe to offer candidates", "session_id", id, "error", err)
	} else {
		c.addCleanup(inboundSync.Stop)
	}

	if _, err := outboundTransport.AddTrack(c.opts.Outbound.Local()); err != nil {
		c.Shutdown()
		return fmt.Errorf("failed to add outbound track: %w", err)
	}

	go func() {
		err := c.opts.Outbound.Run(ctx, c.opts.Queue)
		if err != nil && !errors.Is(err, ErrQueueClosed) && !errors.Is(err, context.Canceled) {
			c.fail(fmt.Errorf("outbound media ended: %w", err))
		}
	}()

	if err := c.outbound.PublishOffer(ctx); err != nil {
		c.Shutdown()
		return err
	}

	// Wait for the counterpart's answer; our own inbound answer also
	// arrives on this feed and is filtered by SDP. Each distinct answer
	// is applied exactly once, so the answer to a renegotiated offer
	// still lands while duplicate document events stay inert.
	var (
		answerMu      sync.Mutex
		appliedAnswer string
	)
	unsubscribeDoc, err := c.opts.Store.SubscribeToDocument(ctx, id, func(d signaling.Document) {
		if d.Answer == nil || d.Answer.SDP == c.inbound.LocalSDP() {
			return
		}

		answerMu.Lock()
		if d.Answer.SDP == appliedAnswer {
			answerMu.Unlock()
			return
		}
		appliedAnswer = d.Answer.SDP
		answerMu.Unlock()

		if err := c.outbound.ApplyRemoteAnswer(*d.Answer); err != nil {
			c.fail(err)
		}
	})
	if err != nil {
		slog.Warn("failed to subscribe to signaling document", "session_id", id, "error", err)
	} else {
		c.addCleanup(unsubscribeDoc)
	}

	// Tail only: records already present belong to the inbound phase.
	outboundSync, err := StartSynchronizer(ctx, c.opts.Store, id, signaling.CollectionAnswerCandidates, false, c.outbound,
		func(record signaling.CandidateRecord) bool {
			return c.inbound.WroteCandidate(record.Candidate)
		})
	if err != nil {
		slog.Warn("failed to subscribe to answer candidates", "session_id", id, "error", err)
	} else {
		c.addCleanup(outboundSync.Stop)
	}

	select {
	case <-ctx.Done():
		slog.Info("relay interrupted", "session_id", id)
	case <-c.done:
	}

	c.Shutdown()

	return c.terminalError()
}

// Shutdown closes both sessions and deletes the signaling document and
// its candidate collections. Safe to call concurrently from state
// callbacks and external interrupts; only the first call acts.
func (c *Controller) Shutdown() {
	c.shutdownOnce.Do(func() {
		if !c.started.Load() {
			return
		}

		id := c.opts.SessionID
		slog.Info("shutting down relay", "session_id", id)

		c.cleanupMu.Lock()
		cleanups := c.cleanups
		c.cleanups = nil
		c.cleanupMu.Unlock()
		for _, stop := range cleanups {
			stop()
		}

		if c.opts.Queue != nil {
			c.opts.Queue.Close()
		}

		if err := c.inbound.Close(); err != nil {
			slog.Warn("failed to close inbound session", "session_id", id, "error", err)
		}
		if err := c.outbound.Close(); err != nil {
			slog.Warn("failed to close outbound session", "session_id", id, "error", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, collection := range []string{signaling.CollectionOfferCandidates, signaling.CollectionAnswerCandidates} {
			if err := c.opts.Store.DeleteCollection(ctx, id, collection); err != nil {
				slog.Warn("failed to delete candidate collection",
					"session_id", id, "collection", collection, "error", err)
			}
		}
		if err := c.opts.Store.DeleteDocument(ctx, id); err != nil {
			slog.Warn("failed to delete signaling document", "session_id", id, "error", err)
		}
	})
}

func (c *Controller) pumpFrames(ctx context.Context, source media.Source) {
	for {
		frame, err := source.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.fail(fmt.Errorf("inbound media ended: %w", err))
			return
		}

		if err := c.opts.Sink.OnFrame(ctx, frame); err != nil {
			if errors.Is(err, ErrQueueClosed) {
				return
			}
			c.fail(fmt.Errorf("frame processing failed: %w", err))
			return
		}
	}
}

// claimInboundVideo reserves the single decoded-stream slot. The queue
// and the detection gate assume one producer, so only the first video
// track may feed them.
func (c *Controller) claimInboundVideo() bool {
	return c.videoClaimed.CompareAndSwap(false, true)
}

// fail records the first terminal error and releases Run.
func (c *Controller) fail(err error) {
	c.failOnce.Do(func() {
		c.termErr = err
		close(c.done)
	})
}

func (c *Controller) addCleanup(stop func()) {
	c.cleanupMu.Lock()
	c.cleanups = append(c.cleanups, stop)
	c.cleanupMu.Unlock()
}

func (c *Controller) terminalError() error {
	select {
	case <-c.done:
		return c.termErr
	default:
		return nil
	}
}
