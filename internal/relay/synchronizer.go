package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/HMasataka/lookout/internal/signaling"
)

// CandidateApplier is the owning session's entry point for remote
// candidates.
type CandidateApplier interface {
	AddRemoteCandidate(record signaling.CandidateRecord) error
}

/*
Synchronizerはストアのchange feedから届くcandidateを、セッションを
所有する実行コンテキストへ順番に引き渡します。feedのリスナーは
1件の適用が完了するまで次のイベントへ進みません。適用に失敗した
candidateはログに残して読み飛ばします。
*/
type Synchronizer struct {
	pool        *workerpool.WorkerPool
	unsubscribe signaling.Unsubscribe
	stopOnce    sync.Once
}

// StartSynchronizer subscribes to one candidate collection and pumps
// every record through a single-worker pool owned by the target
// session. ignore filters records before they are submitted; nil means
// apply everything.
func StartSynchronizer(
	ctx context.Context,
	store signaling.Store,
	id, collection string,
	fromStart bool,
	target CandidateApplier,
	ignore func(signaling.CandidateRecord) bool,
) (*Synchronizer, error) {
	pool := workerpool.New(1)

	unsubscribe, err := store.SubscribeToCollection(ctx, id, collection, fromStart, func(record signaling.CandidateRecord) {
		if ignore != nil && ignore(record) {
			return
		}

		// SubmitWait keeps feed order: the listener blocks until the
		// session has applied this candidate.
		pool.SubmitWait(func() {
			if err := target.AddRemoteCandidate(record); err != nil {
				slog.Warn("failed to apply remote candidate",
					"collection", collection, "session_id", id, "error", err)
			}
		})
	})
	if err != nil {
		pool.Stop()
		return nil, err
	}

	return &Synchronizer{pool: pool, unsubscribe: unsubscribe}, nil
}

// Stop unsubscribes from the feed and releases the worker. Idempotent.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		s.unsubscribe()
		s.pool.Stop()
	})
}
