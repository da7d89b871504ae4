package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/config"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/document"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/eval/template"
	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ArtifactKeyPrefix prefixes the Redis key of every stored artifact
const ArtifactKeyPrefix = "resume:artifact:"

// Renderer builds documents
type Renderer interface {
	Render(ctx context.Context, req document.Request) (*document.Result, error)
}

// Publisher publishes events to a stream
type Publisher interface {
	Publish(ctx context.Context, stream string, event interface{}) error
}

// ArtifactStore keeps rendered documents for later retrieval
type ArtifactStore interface {
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Worker represents the render worker
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	renderer      Renderer
	publisher     Publisher
	artifacts     ArtifactStore
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	running       atomic.Bool
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	renderer Renderer,
	publisher Publisher,
	artifacts ArtifactStore,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		renderer:      renderer,
		publisher:     publisher,
		artifacts:     artifacts,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting render worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	w.running.Store(true)
	w.wg.Add(1)
	go w.processWork()

	w.logger.Info("render worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker and waits for the in-flight job, up to timeout
func (w *Worker) Stop(timeout time.Duration) error {
	w.logger.Info("stopping render worker", zap.String("worker_id", w.id))

	w.running.Store(false)
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("worker did not stop within %s", timeout)
	}

	w.logger.Info("render worker stopped", zap.String("worker_id", w.id))
	return nil
}

// Ready reports whether the worker is consuming its stream
func (w *Worker) Ready() error {
	if !w.running.Load() {
		return fmt.Errorf("worker %s is not running", w.id)
	}
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP error means the group already exists, which is fine
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork processes work from the Redis stream
func (w *Worker) processWork() {
	defer w.wg.Done()
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if err == redis.Nil || w.ctx.Err() != nil {
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// handleMessage handles a single render request message
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing render request",
		zap.String("message_id", messageID),
	)

	// A job in flight finishes even when Stop is called
	ctx := context.WithoutCancel(w.ctx)
	if err := w.Process(ctx, message.Values); err != nil {
		w.logger.Error("failed to process render request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}

	w.acknowledgeMessage(messageID)
}

// RenderRequest represents a render work request
type RenderRequest struct {
	JobID      string             `json:"job_id"`
	Format     string             `json:"format"`
	Template   string             `json:"template,omitempty"`
	Data       template.Context   `json:"data,omitempty"`
	Plan       *resume.GrowthPlan `json:"plan,omitempty"`
	OutputPath string             `json:"output_path,omitempty"`
}

// RenderedEvent is published to the result stream for every finished job
type RenderedEvent struct {
	JobID       string    `json:"job_id"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Bytes       int       `json:"bytes"`
	ArtifactKey string    `json:"artifact_key"`
	OutputPath  string    `json:"output_path,omitempty"`
	LayoutHint  string    `json:"layout_hint,omitempty"`
	WorkerID    string    `json:"worker_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorEvent is published to the error stream for every failed job
type ErrorEvent struct {
	JobID     string    `json:"job_id"`
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	WorkerID  string    `json:"worker_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Process renders one request from message values and publishes the outcome.
// Failures are published to the error stream and returned.
func (w *Worker) Process(ctx context.Context, values map[string]interface{}) error {
	request, err := w.parseRenderRequest(values)
	if err != nil {
		w.publishError(ctx, "", err)
		return err
	}

	if request.JobID == "" {
		request.JobID = uuid.NewString()
	}

	event, err := w.render(ctx, request)
	if err != nil {
		w.publishError(ctx, request.JobID, err)
		return fmt.Errorf("job %s: %w", request.JobID, err)
	}

	if err := w.publisher.Publish(ctx, w.resultStream, event); err != nil {
		return fmt.Errorf("failed to publish rendered event: %w", err)
	}

	w.logger.Info("published rendered event",
		zap.String("job_id", event.JobID),
		zap.String("format", event.Format),
		zap.Int("bytes", event.Bytes),
	)
	return nil
}

// parseRenderRequest parses a render request from Redis message
func (w *Worker) parseRenderRequest(values map[string]interface{}) (*RenderRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, document.NewError(document.KindValidation, "missing or invalid 'data' field", nil)
	}

	var request RenderRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, document.NewError(document.KindValidation, "failed to unmarshal render request", err)
	}

	return &request, nil
}

func (w *Worker) render(ctx context.Context, request *RenderRequest) (*RenderedEvent, error) {
	format, err := document.ParseFormat(request.Format)
	if err != nil {
		return nil, err
	}

	var outputPath string
	if request.OutputPath != "" {
		outputPath, err = resolveOutputPath(w.config.OutputDir, request.OutputPath)
		if err != nil {
			return nil, err
		}
	}

	tmpl := request.Template
	if tmpl == "" {
		tmpl = w.config.DefaultTemplate
	}

	result, err := w.renderer.Render(ctx, document.Request{
		Format:   format,
		Template: tmpl,
		Data:     request.Data,
		Plan:     request.Plan,
	})
	if err != nil {
		return nil, err
	}

	key := ArtifactKeyPrefix + request.JobID
	if err := w.artifacts.Save(ctx, key, result.Bytes, w.config.ArtifactTTL); err != nil {
		return nil, document.NewError(document.KindInternal, "failed to store artifact", err)
	}

	if outputPath != "" {
		if err := document.WriteFile(outputPath, result.Bytes); err != nil {
			return nil, document.NewError(document.KindInternal, "failed to write output", err)
		}
	}

	event := &RenderedEvent{
		JobID:       request.JobID,
		Format:      string(result.Format),
		ContentType: result.ContentType,
		Bytes:       len(result.Bytes),
		ArtifactKey: key,
		OutputPath:  outputPath,
		WorkerID:    w.id,
		Timestamp:   time.Now().UTC(),
	}
	if result.Layout != nil {
		event.LayoutHint = result.Layout.Hint
	}
	return event, nil
}

// resolveOutputPath joins a relative output path onto base, refusing paths
// that would land outside it
func resolveOutputPath(base, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", document.NewError(document.KindValidation, fmt.Sprintf("output path must be relative: %s", path), nil)
	}

	joined := filepath.Join(base, path)
	rel, err := filepath.Rel(base, joined)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", document.NewError(document.KindValidation, fmt.Sprintf("output path escapes output directory: %s", path), nil)
	}
	return joined, nil
}

// publishError publishes an error event
func (w *Worker) publishError(ctx context.Context, jobID string, err error) {
	event := ErrorEvent{
		JobID:     jobID,
		Error:     err.Error(),
		Code:      document.AsGoError(err).TextCode,
		WorkerID:  w.id,
		Timestamp: time.Now().UTC(),
	}

	if publishErr := w.publisher.Publish(ctx, w.resultStream+".errors", event); publishErr != nil {
		w.logger.Error("failed to publish error event", zap.Error(publishErr))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(messageID string) {
	err := w.redisClient.XAck(context.Background(), w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
