package global

import (
	"context"
	"os"
	"strconv"
	"time"

	"CProject/logger"
	"CProject/module/collab"
	"CProject/service/mgo"
	rds "CProject/service/storage/redis"
	"CProject/tools/ids"
)

func ConfigAll() {
	ConfigIds()
	ConfigRedis()
}

func ConfigIds() {
	ids.SetNodeID(envInt64("COLLAB_NODE_ID", 100))
}

// GetJwtSecret returns the HMAC key shared with the identity provider.
// The fallback is for local development only.
func GetJwtSecret() []byte {
	if s := os.Getenv("COLLAB_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o=")
}

// ConfigRedis is optional: without redis the presence snapshot is
// simply skipped.
func ConfigRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}
	cfg := rds.Config{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       int(envInt64("REDIS_DB", 0)),
	}
	if err := rds.Init(cfg); err != nil {
		logger.Warnf("[Config] redis init addr=%s failed: %v", addr, err)
	}
}

// ConfigMgo starts the async mongo manager when a URI is configured and
// reports whether it was started at all.
func ConfigMgo(ctx context.Context) bool {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return false
	}
	cfg := &mgo.Config{
		Uri:         uri,
		Database:    envString("MONGO_DATABASE", "collab"),
		Username:    os.Getenv("MONGO_USERNAME"),
		Password:    os.Getenv("MONGO_PASSWORD"),
		MaxPoolSize: 20,
	}
	mgo.StartAsync(ctx, cfg)
	return true
}

func GetNatsURL() string {
	return os.Getenv("NATS_URL")
}

func GetListenAddr() string {
	return envString("COLLAB_LISTEN", ":8081")
}

// EngineConfig builds the engine tuning from env, with the documented
// defaults: 5m presence staleness, 24h session retention, 30d mention
// retention, 1000-entry operation log.
func EngineConfig() collab.Config {
	return collab.Config{
		OpLogLimit:         int(envInt64("COLLAB_OPLOG_LIMIT", 1000)),
		PresenceStaleAfter: envDuration("COLLAB_PRESENCE_STALE", 5*time.Minute),
		SessionRetention:   envDuration("COLLAB_SESSION_RETENTION", 24*time.Hour),
		MentionRetention:   envDuration("COLLAB_MENTION_RETENTION", 30*24*time.Hour),
		SweepEvery:         envDuration("COLLAB_SWEEP_EVERY", time.Minute),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
