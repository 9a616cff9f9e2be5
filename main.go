package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"CProject/global"
	"CProject/logger"
	"CProject/module/collab"
	"CProject/module/collab/store"
	"CProject/service/gateway"
	"CProject/service/mgo"
	"CProject/service/notify"
	"CProject/service/storage"
	rds "CProject/service/storage/redis"
	"CProject/tools/safe"
	"CProject/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	global.ConfigAll()

	st := buildStore(ctx)

	engine := collab.NewEngine(st, global.EngineConfig())
	if err := engine.Load(ctx); err != nil {
		logger.Warnf("[Main] load persisted state failed, starting empty: %v", err)
	}
	go engine.Run(ctx)

	if url := global.GetNatsURL(); url != "" {
		pub, err := notify.NewNatsPublisher(url, "")
		if err != nil {
			logger.Warnf("[Main] nats connect url=%s failed: %v", url, err)
		} else {
			defer pub.Close()
			engine.SetNotifier(pub)
		}
	}

	if rds.Get() != nil {
		snap := storage.NewPresenceSnapshotter(engine, 30*time.Second)
		safe.Go(func() { snap.Run(ctx) })
	}

	srv := gateway.NewServer(engine, security.DefaultOptions(global.GetJwtSecret()))

	r := gin.Default()
	srv.Mount(r)

	addr := global.GetListenAddr()
	logger.Infof("[Main] collab gateway listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("[Main] server exited: %v", err)
	}
}

// buildStore prefers mongo when configured and reachable; otherwise the
// engine runs on the in-memory store and state is process-lifetime only.
func buildStore(ctx context.Context) store.Store {
	if !global.ConfigMgo(ctx) {
		logger.Infof("[Main] no MONGO_URI, using in-memory store")
		return store.NewMemStore()
	}

	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mgo.WaitReady(wctx); err != nil {
		logger.Warnf("[Main] mongo not ready (%v), falling back to in-memory store", err)
		return store.NewMemStore()
	}
	return store.NewMongoStore(mgo.GetDB())
}
