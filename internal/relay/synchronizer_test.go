package relay_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/HMasataka/lookout/internal/relay"
	"github.com/HMasataka/lookout/internal/signaling"
	mock_signaling "github.com/HMasataka/lookout/internal/signaling/mock"
)

type recordingApplier struct {
	mu       sync.Mutex
	applied  []signaling.CandidateRecord
	inFlight bool
	overlap  bool
	fail     map[string]bool
}

func (a *recordingApplier) AddRemoteCandidate(record signaling.CandidateRecord) error {
	a.mu.Lock()
	if a.inFlight {
		a.overlap = true
	}
	a.inFlight = true
	a.mu.Unlock()

	// Simulated application work; overlapping calls would be visible.
	time.Sleep(5 * time.Millisecond)

	a.mu.Lock()
	a.inFlight = false
	if a.fail[record.Candidate] {
		a.mu.Unlock()
		return errors.New("bad candidate")
	}
	a.applied = append(a.applied, record)
	a.mu.Unlock()
	return nil
}

func (a *recordingApplier) records() []signaling.CandidateRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]signaling.CandidateRecord(nil), a.applied...)
}

func subscribeStub(records []signaling.CandidateRecord) func(ctx context.Context, id, collection string, fromStart bool, onAdded func(signaling.CandidateRecord)) (signaling.Unsubscribe, error) {
	return func(ctx context.Context, id, collection string, fromStart bool, onAdded func(signaling.CandidateRecord)) (signaling.Unsubscribe, error) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			for _, record := range records {
				onAdded(record)
			}
		}()
		return func() { <-done }, nil
	}
}

func TestSynchronizer(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("feed順に1件ずつ適用される", func(t *testing.T) {
		records := []signaling.CandidateRecord{
			{Candidate: "c1"},
			{Candidate: "c2"},
			{Candidate: "c3"},
		}

		store := mock_signaling.NewMockStore(ctrl)
		store.EXPECT().
			SubscribeToCollection(gomock.Any(), "call-1", signaling.CollectionOfferCandidates, true, gomock.Any()).
			DoAndReturn(subscribeStub(records))

		applier := &recordingApplier{}

		s, err := relay.StartSynchronizer(context.Background(), store, "call-1", signaling.CollectionOfferCandidates, true, applier, nil)
		require.NoError(t, err)
		s.Stop()

		applied := applier.records()
		require.Len(t, applied, 3)
		assert.Equal(t, "c1", applied[0].Candidate)
		assert.Equal(t, "c2", applied[1].Candidate)
		assert.Equal(t, "c3", applied[2].Candidate)
		assert.False(t, applier.overlap, "candidate applications overlapped")
	})

	t.Run("適用に失敗したcandidateは読み飛ばす", func(t *testing.T) {
		records := []signaling.CandidateRecord{
			{Candidate: "c1"},
			{Candidate: "c2"},
			{Candidate: "c3"},
		}

		store := mock_signaling.NewMockStore(ctrl)
		store.EXPECT().
			SubscribeToCollection(gomock.Any(), "call-2", signaling.CollectionOfferCandidates, true, gomock.Any()).
			DoAndReturn(subscribeStub(records))

		applier := &recordingApplier{fail: map[string]bool{"c2": true}}

		s, err := relay.StartSynchronizer(context.Background(), store, "call-2", signaling.CollectionOfferCandidates, true, applier, nil)
		require.NoError(t, err)
		s.Stop()

		applied := applier.records()
		require.Len(t, applied, 2)
		assert.Equal(t, "c1", applied[0].Candidate)
		assert.Equal(t, "c3", applied[1].Candidate)
	})

	t.Run("ignoreフィルタに一致したcandidateは適用されない", func(t *testing.T) {
		records := []signaling.CandidateRecord{
			{Candidate: "mine"},
			{Candidate: "theirs"},
		}

		store := mock_signaling.NewMockStore(ctrl)
		store.EXPECT().
			SubscribeToCollection(gomock.Any(), "call-3", signaling.CollectionAnswerCandidates, false, gomock.Any()).
			DoAndReturn(subscribeStub(records))

		applier := &recordingApplier{}

		s, err := relay.StartSynchronizer(context.Background(), store, "call-3", signaling.CollectionAnswerCandidates, false, applier,
			func(record signaling.CandidateRecord) bool {
				return record.Candidate == "mine"
			})
		require.NoError(t, err)
		s.Stop()

		applied := applier.records()
		require.Len(t, applied, 1)
		assert.Equal(t, "theirs", applied[0].Candidate)
	})

	t.Run("購読に失敗したらエラーを返す", func(t *testing.T) {
		store := mock_signaling.NewMockStore(ctrl)
		store.EXPECT().
			SubscribeToCollection(gomock.Any(), "call-4", signaling.CollectionOfferCandidates, true, gomock.Any()).
			Return(nil, signaling.ErrUnavailable)

		_, err := relay.StartSynchronizer(context.Background(), store, "call-4", signaling.CollectionOfferCandidates, true, &recordingApplier{}, nil)
		assert.ErrorIs(t, err, signaling.ErrUnavailable)
	})

	t.Run("Stopは冪等", func(t *testing.T) {
		store := mock_signaling.NewMockStore(ctrl)
		store.EXPECT().
			SubscribeToCollection(gomock.Any(), "call-5", signaling.CollectionOfferCandidates, true, gomock.Any()).
			DoAndReturn(subscribeStub(nil))

		s, err := relay.StartSynchronizer(context.Background(), store, "call-5", signaling.CollectionOfferCandidates, true, &recordingApplier{}, nil)
		require.NoError(t, err)

		s.Stop()
		s.Stop()
	})
}
