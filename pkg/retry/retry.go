package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config はリトライの設定を保持する
type Config struct {
	Attempts     int
	BaseInterval time.Duration
	MaxBackoff   time.Duration
}

// DefaultConfig はデフォルトのリトライ設定を返す
func DefaultConfig() Config {
	return Config{
		Attempts:     6,
		BaseInterval: 200 * time.Millisecond,
		MaxBackoff:   5 * time.Second,
	}
}

// Backoff は指数バックオフ + ジッターを計算する
func Backoff(attempt int, baseInterval, maxBackoff time.Duration) time.Duration {
	d := baseInterval << attempt
	if d > maxBackoff {
		d = maxBackoff
	}
	// +/-10% jitter
	jitter := time.Duration(int64(d) * int64(9+rand.Intn(3)) / 10)
	return jitter
}

// Do はopが成功するまでバックオフを挟んで再試行する。
// 試行回数を使い切った場合は最後のエラーを返す。
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	var lastErr error

	for i := 0; i < cfg.Attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = op(ctx); lastErr == nil {
			return nil
		}

		if i == cfg.Attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Backoff(i, cfg.BaseInterval, cfg.MaxBackoff)):
		}
	}

	return lastErr
}
