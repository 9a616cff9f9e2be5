package mgo

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	Uri         string
	Database    string
	Username    string
	Password    string
	MaxPoolSize uint64
}

type MongoManager struct {
	mu        sync.RWMutex
	db        *mongo.Database
	readyCh   chan struct{} // closed once on first successful connect
	readyOnce sync.Once

	lastErr atomic.Value // error
}

var globalMgr MongoManager

// StartAsync runs until ctx.Done(): connects with exponential backoff,
// closes Ready() on first success, then health-checks and reconnects on
// loss. Callers that can tolerate an unavailable store should use
// TryGetDB instead of blocking on Ready.
func StartAsync(ctx context.Context, cfg *Config) {
	if globalMgr.readyCh == nil {
		globalMgr.readyCh = make(chan struct{})
	}

	go func() {
		const (
			baseBackoff = 200 * time.Millisecond
			maxBackoff  = 5 * time.Second
			healthEvery = 10 * time.Second
			failThresh  = 3
		)

		for {
			// connect phase with backoff + jitter
			attempt := 0
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				db, err := connect(ctx, cfg)
				if err == nil {
					globalMgr.mu.Lock()
					globalMgr.db = db
					globalMgr.mu.Unlock()
					globalMgr.readyOnce.Do(func() { close(globalMgr.readyCh) })
					break
				}
				globalMgr.lastErr.Store(err)

				backoff := baseBackoff << attempt
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				jitter := time.Duration(rand.Int63n(int64(backoff / 5)))
				timer := time.NewTimer(backoff - jitter/2)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
				if attempt < 6 {
					attempt++
				}
			}

			// health phase; falls back to the connect phase on repeated failure
			fail := 0
			ticker := time.NewTicker(healthEvery)
			alive := true
			for alive {
				select {
				case <-ctx.Done():
					ticker.Stop()
					globalMgr.mu.Lock()
					if globalMgr.db != nil {
						_ = globalMgr.db.Client().Disconnect(context.Background())
						globalMgr.db = nil
					}
					globalMgr.mu.Unlock()
					return
				case <-ticker.C:
					globalMgr.mu.RLock()
					db := globalMgr.db
					globalMgr.mu.RUnlock()
					if db == nil {
						alive = false
						break
					}
					if err := db.Client().Ping(ctx, nil); err != nil {
						fail++
						globalMgr.lastErr.Store(err)
						if fail >= failThresh {
							globalMgr.mu.Lock()
							_ = db.Client().Disconnect(context.Background())
							globalMgr.db = nil
							globalMgr.mu.Unlock()
							alive = false
						}
					} else {
						fail = 0
					}
				}
			}
			ticker.Stop()
		}
	}()
}

func connect(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(cfg.Uri)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{Username: cfg.Username, Password: cfg.Password})
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cli, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(cctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	return cli.Database(cfg.Database), nil
}

// Ready is closed on the first successful connect.
func Ready() <-chan struct{} {
	return globalMgr.readyCh
}

func Err() error {
	if v := globalMgr.lastErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}

func GetDB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.db == nil {
		panic("Mongo not ready: wait Ready() or use TryGetDB()")
	}
	return globalMgr.db
}

func TryGetDB() (*mongo.Database, bool) {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.db == nil {
		return nil, false
	}
	return globalMgr.db, true
}

func WaitReady(ctx context.Context) error {
	globalMgr.mu.RLock()
	readyCh := globalMgr.readyCh
	dbNil := globalMgr.db == nil
	globalMgr.mu.RUnlock()

	if !dbNil {
		return nil
	}
	if readyCh == nil {
		return fmt.Errorf("mongo manager not started")
	}
	select {
	case <-readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
