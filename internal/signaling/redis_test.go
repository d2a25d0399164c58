package signaling

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKeys(t *testing.T) {
	s := NewRedisStore(RedisOptions{Prefix: "lookout"})

	t.Run("文書キー", func(t *testing.T) {
		assert.Equal(t, "lookout:call:abc", s.docKey("abc"))
	})

	t.Run("コレクションキー", func(t *testing.T) {
		assert.Equal(t, "lookout:call:abc:offerCandidates", s.collectionKey("abc", CollectionOfferCandidates))
	})

	t.Run("イベントチャネル", func(t *testing.T) {
		assert.Equal(t, "lookout:call:abc:events", s.docChannel("abc"))
		assert.Equal(t, "lookout:call:abc:answerCandidates:events", s.collectionChannel("abc", CollectionAnswerCandidates))
	})
}

func TestDecodeDocument(t *testing.T) {
	t.Run("offerとanswerの両方を復元する", func(t *testing.T) {
		fields := map[string]string{
			fieldOffer:  encodeDescription(&Description{SDP: "offer-sdp", Type: "offer"}),
			fieldAnswer: encodeDescription(&Description{SDP: "answer-sdp", Type: "answer"}),
		}

		doc, err := decodeDocument(fields)
		require.NoError(t, err)

		require.NotNil(t, doc.Offer)
		assert.Equal(t, "offer-sdp", doc.Offer.SDP)
		require.NotNil(t, doc.Answer)
		assert.Equal(t, "answer", doc.Answer.Type)
	})

	t.Run("answerが未書き込みならnilのまま", func(t *testing.T) {
		fields := map[string]string{
			fieldOffer: encodeDescription(&Description{SDP: "offer-sdp", Type: "offer"}),
		}

		doc, err := decodeDocument(fields)
		require.NoError(t, err)

		assert.NotNil(t, doc.Offer)
		assert.Nil(t, doc.Answer)
	})

	t.Run("壊れたフィールドはエラー", func(t *testing.T) {
		fields := map[string]string{fieldOffer: "{not json"}

		_, err := decodeDocument(fields)
		assert.Error(t, err)
	})
}

func TestCollectionEventCodec(t *testing.T) {
	t.Run("seqとレコードが往復する", func(t *testing.T) {
		payload, err := json.Marshal(collectionEvent{
			Seq:    7,
			Record: CandidateRecord{Candidate: "candidate:1", SDPMid: "0", SDPMLineIndex: 1},
		})
		require.NoError(t, err)

		var event collectionEvent
		require.NoError(t, json.Unmarshal(payload, &event))

		assert.Equal(t, int64(7), event.Seq)
		assert.Equal(t, "candidate:1", event.Record.Candidate)
		assert.Equal(t, uint16(1), event.Record.SDPMLineIndex)
	})
}

func TestSeqFilter(t *testing.T) {
	t.Run("再生済みのプレフィックスは配送しない", func(t *testing.T) {
		deliver := newSeqFilter(3)

		assert.False(t, deliver(1))
		assert.False(t, deliver(3))
		assert.True(t, deliver(4))
		assert.False(t, deliver(4))
		assert.True(t, deliver(5))
	})

	t.Run("tail購読は確立中にappendされたレコードを取りこぼさない", func(t *testing.T) {
		// Two records exist when the count is taken; a third is appended
		// while the subscription is still being established. Its event
		// carries seq 3 and must come through.
		deliver := newSeqFilter(2)

		assert.True(t, deliver(3))
		assert.True(t, deliver(4))
	})

	t.Run("履歴なしのtail購読は最初のイベントから配送する", func(t *testing.T) {
		deliver := newSeqFilter(0)

		assert.True(t, deliver(1))
		assert.False(t, deliver(1))
		assert.True(t, deliver(2))
	})
}

func TestUnavailable(t *testing.T) {
	t.Run("元のエラーはErrUnavailableに包まれる", func(t *testing.T) {
		err := unavailable(errors.New("connection refused"))

		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
