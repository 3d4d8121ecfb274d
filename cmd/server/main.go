package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"betnotes/internal/api"
	"betnotes/internal/auth"
	"betnotes/internal/config"
	"betnotes/internal/db"
	"betnotes/internal/sportmonks"
	"betnotes/internal/storage"
	"betnotes/internal/taxonomy"
)

func main() {
	cfg := config.Load()

	gdb, err := db.Connect(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	var snapshots taxonomy.SnapshotStore
	if cfg.MinIOEndpoint != "" {
		store, err := newSnapshotStore(cfg)
		if err != nil {
			log.Fatalf("minio connect failed: %v", err)
		}
		snapshots = store
	}

	client := sportmonks.NewClient(cfg.SportMonksBaseURL, cfg.SportMonksAPIKey, cfg.SportMonksPageSize, cfg.HTTPTimeout, cfg.SportMonksRateLimit)
	store := taxonomy.NewStore(gdb)
	engine := taxonomy.NewEngine(client, store, snapshots)
	cache := taxonomy.NewCache(store)

	// The process must not serve lookups with an empty cache.
	if err := cache.Load(); err != nil {
		log.Fatalf("taxonomy cache load failed: %v", err)
	}
	log.Printf("taxonomy cache loaded: %d types", cache.Status().Count)

	if cfg.SyncOnStart {
		runSync(engine, cache)
	}
	if cfg.SyncInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for range ticker.C {
				runSync(engine, cache)
			}
		}()
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	srv := &api.Server{
		Cache:    cache,
		Engine:   engine,
		Store:    store,
		Sessions: auth.NewStaticTokens(cfg.AdminTokens),
	}
	srv.RegisterRoutes(r)

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newSnapshotStore(cfg config.Config) (*storage.MinioStore, error) {
	return storage.NewMinioStore(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOSecure, cfg.MinIOBucket)
}

func runSync(engine *taxonomy.Engine, cache *taxonomy.Cache) {
	summary, err := engine.Sync(context.Background())
	if err != nil {
		log.Printf("scheduled taxonomy sync failed: %v", err)
		return
	}
	if err := cache.Load(); err != nil {
		log.Printf("taxonomy cache reload failed after sync %s: %v", summary.RunID, err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
