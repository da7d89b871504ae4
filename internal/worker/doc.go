// Package worker implements the render worker lifecycle and Redis Streams integration.
//
// The worker consumes render requests from a Redis Stream, builds the requested
// document, stores it in Redis and publishes a rendered event for the caller.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(cfg.RedisOptions())
//
//	w := worker.NewWorker(cfg, redisClient, service,
//	    worker.NewRedisPublisher(redisClient, logger),
//	    worker.NewRedisArtifactStore(redisClient, logger),
//	    logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop(10 * time.Second)
//
// A request is one stream entry whose "data" field holds JSON:
//
//	{"job_id": "42", "format": "pdf", "template": "modern", "data": {...}, "output_path": "ana/resume.pdf"}
//
// The worker handles:
//   - Redis Streams subscription and consumer group management
//   - Render request processing
//   - Artifact storage with a TTL
//   - Rendered and error event publishing
//   - Graceful shutdown
//
// Health checks are provided via a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(8082, redisClient, w.Ready, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
