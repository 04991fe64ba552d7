package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/DMarby/photo-strip/internal/api"
	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/cache/memory"
	"github.com/DMarby/photo-strip/internal/cache/redis"
	"github.com/DMarby/photo-strip/internal/cmd"
	"github.com/DMarby/photo-strip/internal/database"
	fileDatabase "github.com/DMarby/photo-strip/internal/database/file"
	redisDatabase "github.com/DMarby/photo-strip/internal/database/redis"
	"github.com/DMarby/photo-strip/internal/health"
	"github.com/DMarby/photo-strip/internal/hmac"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/image/compositor"
	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/metrics"
	"github.com/DMarby/photo-strip/internal/storage"
	fileStorage "github.com/DMarby/photo-strip/internal/storage/file"
	"github.com/DMarby/photo-strip/internal/storage/spaces"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/DMarby/photo-strip/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", ":8082", "metrics listen address")
	rootURL       = flag.String("root-url", "http://localhost:8080", "root url used for strip download links")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Rendering
	workers             = flag.Int("workers", 3, "number of strips rendered at once")
	sessionLimit        = flag.Int("session-limit", 1000, "number of booth sessions kept, renders in a session supersede each other")
	decodeConcurrency   = flag.Int("decode-concurrency", 4, "photos decoded at once per strip, 0 for no limit")
	decodeFailurePolicy = flag.String("decode-failure-policy", "skip", "what to do with a photo that fails to decode (skip, abort)")

	// Uploads
	maxUploadSize = flag.Int64("max-upload-size", 32<<20, "memory used for parsing a multipart request, the rest goes to temporary files")
	maxPhotoSize  = flag.Int64("max-photo-size", 10<<20, "largest accepted photo in bytes")

	// Storage
	storageBackend = flag.String("storage", "file", "which storage backend to use for stickers and designs (file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", "./assets", "path to the file storage")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint, e.g. https://ams3.digitaloceanspaces.com")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesPrefix         = flag.String("storage-spaces-prefix", "", "prefix of every asset key in the space")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style urls, needed for some s3 compatible storages")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use for assets and rendered strips (memory, redis)")

	// Cache - Memory
	cacheMemoryLimit      = flag.Int("cache-memory-limit", 64<<20, "bytes of assets kept in memory, 0 for no limit")
	cacheMemoryStripLimit = flag.Int("cache-memory-strip-limit", 256<<20, "bytes of rendered strips kept in memory, 0 for no limit")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "127.0.0.1:6379", "redis address")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")
	cacheRedisStripTTL = flag.Duration("cache-redis-strip-ttl", 24*time.Hour, "how long rendered strips can be downloaded")

	// Database
	databaseBackend     = flag.String("database", "file", "which database backend to use for the visit counter (file, redis)")
	databaseWaitTimeout = flag.Duration("database-wait-timeout", time.Second*30, "time to wait for a database connection to be established before giving up")

	// Database - File
	databaseFilePath = flag.String("database-file-path", "./counter.json", "path to the counter file")

	// Database - Redis
	databaseRedisAddress  = flag.String("database-redis-address", "127.0.0.1:6379", "redis address")
	databaseRedisPoolSize = flag.Int("database-redis-pool-size", 10, "redis connection pool size")
	databaseRedisKey      = flag.String("database-redis-key", "photostrip:counter", "redis hash holding the counter")

	// Healthcheck
	healthCheckAssetKey = flag.String("health-check-asset-key", "stickers/panda.png", "asset to request from the storage to check storage health")

	// HMAC
	hmacKey = flag.String("hmac-key", "", "hmac key used to sign strip download links, at least 16 bytes")
)

type backends struct {
	storage  storage.Provider
	assets   cache.Provider
	strips   cache.Provider
	database database.Provider
}

func main() {
	// Parse environment variables
	envy.Parse("STRIP")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	failurePolicy, err := strip.ParseFailurePolicy(*decodeFailurePolicy)
	if err != nil {
		log.Fatalf("error parsing flags: %s", err)
	}

	signer, err := hmac.New(*hmacKey)
	if err != nil {
		log.Fatalf("error parsing flags: %s", err)
	}

	// Initialize tracing
	tracer, err := tracing.New(shutdownCtx, log, "strip-service")
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(context.Background())

	// Initialize the storage, caches and database
	b, err := setupBackends(shutdownCtx, tracer)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	defer b.assets.Shutdown()
	defer b.strips.Shutdown()
	defer b.database.Shutdown()

	log.Infof("waiting for the database")
	waitCtx, cancel := context.WithTimeout(shutdownCtx, *databaseWaitTimeout)
	err = b.database.Wait(waitCtx)
	cancel()
	if err != nil {
		log.Fatalf("error waiting for the database: %s", err)
	}

	// Initialize the strip processor
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	processor := compositor.New(processorCtx, log, tracer, image.NewAssets(image.NewCache(tracer, b.assets, b.storage)), compositor.Config{
		Workers:           *workers,
		SessionLimit:      *sessionLimit,
		DecodeConcurrency: *decodeConcurrency,
		FailurePolicy:     failurePolicy,
	})
	defer processor.Shutdown()

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Storage:  b.storage,
		AssetKey: *healthCheckAssetKey,
		Database: b.database,
		Cache:    b.assets,
		Log:      log,
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Start and listen on http
	api := &api.API{
		Processor:      processor,
		Strips:         b.strips,
		Database:       b.database,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		RootURL:        *rootURL,
		HandlerTimeout: cmd.HandlerTimeout,
		HMAC:           signer,
		MaxUploadSize:  *maxUploadSize,
		MaxPhotoSize:   *maxPhotoSize,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	cmd.ListenAndServe(shutdownCtx, log, server, shutdown)
}

func setupBackends(ctx context.Context, tracer *tracing.Tracer) (b backends, err error) {
	// Storage
	switch *storageBackend {
	case "file":
		b.storage, err = fileStorage.New(*storageFilePath)
	case "spaces":
		b.storage, err = spaces.New(*storageSpacesSpace, *storageSpacesEndpoint, *storageSpacesAccessKey, *storageSpacesSecretKey, *storageSpacesPrefix, *storageSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid storage backend")
	}

	if err != nil {
		return
	}

	// Cache
	switch *cacheBackend {
	case "memory":
		b.assets = memory.New(*cacheMemoryLimit)
		b.strips = memory.New(*cacheMemoryStripLimit)
	case "redis":
		if b.assets, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, "asset:", 0); err != nil {
			return
		}
		b.strips, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, "strip:", *cacheRedisStripTTL)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	if err != nil {
		return
	}

	// Database
	switch *databaseBackend {
	case "file":
		b.database, err = fileDatabase.New(*databaseFilePath)
	case "redis":
		b.database, err = redisDatabase.New(ctx, tracer, *databaseRedisAddress, *databaseRedisPoolSize, *databaseRedisKey)
	default:
		err = fmt.Errorf("invalid database backend")
	}

	return
}
