package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultReplayLockKey = "disruption-replay:replay-slot"

// RedisSingleFlight shares one replay slot between every process that talks
// to the same Redis. A live holder refreshes the lock every third of the TTL
// until it releases, so the TTL only bounds how long a crashed holder can
// block others.
type RedisSingleFlight struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

func NewRedisSingleFlight(client redis.UniversalClient, key string, ttl time.Duration) (*RedisSingleFlight, error) {
	if client == nil {
		return nil, errors.New("redis single flight: client is nil")
	}
	if ttl <= 0 {
		return nil, errors.New("redis single flight: ttl must be positive")
	}
	if key == "" {
		key = DefaultReplayLockKey
	}
	return &RedisSingleFlight{
		locker: redislock.New(client),
		key:    key,
		ttl:    ttl,
	}, nil
}

func (r *RedisSingleFlight) TryAcquire(ctx context.Context) (func(), bool, error) {
	l, err := r.locker.Obtain(ctx, r.key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis single flight: obtain %q: %w", r.key, err)
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go r.keepAlive(l, stop, stopped)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-stopped

			// The request context may already be gone when the replay ends.
			relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := l.Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logrus.WithFields(logrus.Fields{
					"key": r.key,
					"err": err,
				}).Warn("release replay lock failed")
			}
		})
	}
	return release, true, nil
}

// keepAlive extends the lock TTL until stop is closed or the lock is lost.
func (r *RedisSingleFlight) keepAlive(l *redislock.Lock, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	every := r.ttl / 3
	if every <= 0 {
		every = r.ttl
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), every)
		err := l.Refresh(ctx, r.ttl, nil)
		cancel()

		if errors.Is(err, redislock.ErrNotObtained) {
			logrus.WithField("key", r.key).Warn("replay lock lost before release")
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"key": r.key,
				"err": err,
			}).Warn("refresh replay lock failed")
		}
	}
}

// Connect opens a Redis client and verifies it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return rdb, nil
}
