package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	fieldOffer  = "offer"
	fieldAnswer = "answer"
)

// RedisStore implements Store on a redis backend. A document is a hash
// keyed by the session identifier, candidate collections are lists, and
// change feeds ride pub/sub channels. Every published collection event
// carries the list length at append time so a subscriber that replays
// the list can discard the overlap.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

type RedisOptions struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Addr:   "localhost:6379",
		Prefix: "lookout",
	}
}

func NewRedisStore(options RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})

	return &RedisStore{
		client:    client,
		keyPrefix: options.Prefix,
	}
}

// Client exposes the underlying connection for sibling components that
// share the deployment, such as the user settings reader.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Ping checks connectivity. Used by bootstrap only.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) docKey(id string) string {
	return s.keyPrefix + ":call:" + id
}

func (s *RedisStore) collectionKey(id, collection string) string {
	return s.docKey(id) + ":" + collection
}

func (s *RedisStore) docChannel(id string) string {
	return s.docKey(id) + ":events"
}

func (s *RedisStore) collectionChannel(id, collection string) string {
	return s.collectionKey(id, collection) + ":events"
}

func (s *RedisStore) GetDocument(ctx context.Context, id string) (Document, error) {
	fields, err := s.client.HGetAll(ctx, s.docKey(id)).Result()
	if err != nil {
		return Document{}, unavailable(err)
	}

	if len(fields) == 0 {
		return Document{}, ErrNotFound
	}

	return decodeDocument(fields)
}

func (s *RedisStore) SetDocument(ctx context.Context, id string, doc Document, merge bool) error {
	key := s.docKey(id)

	pipe := s.client.TxPipeline()
	if !merge {
		pipe.Del(ctx, key)
	}
	if doc.Offer != nil {
		pipe.HSet(ctx, key, fieldOffer, encodeDescription(doc.Offer))
	}
	if doc.Answer != nil {
		pipe.HSet(ctx, key, fieldAnswer, encodeDescription(doc.Answer))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}

	return s.publishDocument(ctx, id)
}

// publishDocument reads the stored state back and broadcasts it, so
// subscribers always observe merged writes, not the delta.
func (s *RedisStore) publishDocument(ctx context.Context, id string) error {
	fields, err := s.client.HGetAll(ctx, s.docKey(id)).Result()
	if err != nil {
		return unavailable(err)
	}

	doc, err := decodeDocument(fields)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.client.Publish(ctx, s.docChannel(id), payload).Err(); err != nil {
		return unavailable(err)
	}

	return nil
}

// collectionEvent is the wire form of one change-feed entry.
type collectionEvent struct {
	Seq    int64           `json:"seq"`
	Record CandidateRecord `json:"record"`
}

func (s *RedisStore) AppendToCollection(ctx context.Context, id, collection string, record CandidateRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate record: %w", err)
	}

	seq, err := s.client.RPush(ctx, s.collectionKey(id, collection), payload).Result()
	if err != nil {
		return unavailable(err)
	}

	event, err := json.Marshal(collectionEvent{Seq: seq, Record: record})
	if err != nil {
		return fmt.Errorf("failed to marshal collection event: %w", err)
	}

	if err := s.client.Publish(ctx, s.collectionChannel(id, collection), event).Err(); err != nil {
		return unavailable(err)
	}

	return nil
}

func (s *RedisStore) SubscribeToCollection(ctx context.Context, id, collection string, fromStart bool, onAdded func(CandidateRecord)) (Unsubscribe, error) {
	key := s.collectionKey(id, collection)

	// Tail-only subscribers count history before the subscription goes
	// live. Counting afterwards would fold a record appended while the
	// subscription is being established into the skipped prefix even
	// though its event arrives on the channel.
	var skip int64
	if !fromStart {
		n, err := s.client.LLen(ctx, key).Result()
		if err != nil {
			return nil, unavailable(err)
		}
		skip = n
	}

	pubsub := s.client.Subscribe(ctx, s.collectionChannel(id, collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, unavailable(err)
	}

	var existing []string
	if fromStart {
		// Snapshot taken after the subscription is live, so nothing
		// appended in between is lost; the seq filter drops the overlap.
		var err error
		existing, err = s.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			pubsub.Close()
			return nil, unavailable(err)
		}
		skip = int64(len(existing))
	}

	deliver := newSeqFilter(skip)

	done := make(chan struct{})
	go func() {
		defer close(done)

		for _, raw := range existing {
			var record CandidateRecord
			if err := json.Unmarshal([]byte(raw), &record); err != nil {
				slog.Warn("skipping undecodable candidate record", "collection", collection, "error", err)
				continue
			}
			onAdded(record)
		}

		for msg := range pubsub.Channel() {
			var event collectionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Warn("skipping undecodable collection event", "collection", collection, "error", err)
				continue
			}
			if !deliver(event.Seq) {
				continue
			}
			onAdded(event.Record)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			pubsub.Close()
			<-done
		})
	}, nil
}

func (s *RedisStore) SubscribeToDocument(ctx context.Context, id string, onChanged func(Document)) (Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, s.docChannel(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, unavailable(err)
	}

	current, err := s.GetDocument(ctx, id)
	if err != nil && err != ErrNotFound {
		pubsub.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		if err == nil {
			onChanged(current)
		}

		for msg := range pubsub.Channel() {
			var doc Document
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				slog.Warn("skipping undecodable document event", "id", id, "error", err)
				continue
			}
			onChanged(doc)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			pubsub.Close()
			<-done
		})
	}, nil
}

func (s *RedisStore) DeleteCollection(ctx context.Context, id, collection string) error {
	if err := s.client.Del(ctx, s.collectionKey(id, collection)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.docKey(id)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// newSeqFilter reports whether a feed event should be delivered. Events
// inside the already-accounted prefix, and events arriving at or behind
// a sequence number already delivered, are dropped.
func newSeqFilter(skip int64) func(seq int64) bool {
	seen := skip
	return func(seq int64) bool {
		if seq <= seen {
			return false
		}
		seen = seq
		return true
	}
}

func encodeDescription(desc *Description) string {
	payload, _ := json.Marshal(desc)
	return string(payload)
}

func decodeDocument(fields map[string]string) (Document, error) {
	var doc Document

	if raw, ok := fields[fieldOffer]; ok {
		var desc Description
		if err := json.Unmarshal([]byte(raw), &desc); err != nil {
			return Document{}, fmt.Errorf("failed to decode offer: %w", err)
		}
		doc.Offer = &desc
	}

	if raw, ok := fields[fieldAnswer]; ok {
		var desc Description
		if err := json.Unmarshal([]byte(raw), &desc); err != nil {
			return Document{}, fmt.Errorf("failed to decode answer: %w", err)
		}
		doc.Answer = &desc
	}

	return doc, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

var _ Store = (*RedisStore)(nil)
