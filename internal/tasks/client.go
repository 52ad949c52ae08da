package tasks

import (
	"encoding/json"

	"campdir/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient enqueues background work triggered by resource writes.
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	if err := c.redisClient.Close(); err != nil {
		c.logger.Warn("failed to close redis client: %v", err)
	}
	return c.client.Close()
}

// EnqueueRecomputeRating schedules an average-rating refresh for a
// bootcamp. Fire-and-forget: callers log the returned error at most.
func (c *TaskClient) EnqueueRecomputeRating(bootcampID string) error {
	return c.enqueueRecompute(TaskTypeRecomputeRating, bootcampID)
}

// EnqueueRecomputeCost schedules an average-cost refresh for a bootcamp.
func (c *TaskClient) EnqueueRecomputeCost(bootcampID string) error {
	return c.enqueueRecompute(TaskTypeRecomputeCost, bootcampID)
}

func (c *TaskClient) enqueueRecompute(taskType, bootcampID string) error {
	payload, err := json.Marshal(RecomputePayload{BootcampID: bootcampID})
	if err != nil {
		return err
	}

	_, err = c.client.Enqueue(
		asynq.NewTask(taskType, payload),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if err != nil {
		return c.logger.Error("failed to enqueue %s for bootcamp %s", err, taskType, bootcampID)
	}
	return nil
}

// EnqueueResetPasswordEmail schedules a password reset mail.
func (c *TaskClient) EnqueueResetPasswordEmail(email, resetURL string) error {
	payload, err := json.Marshal(ResetPasswordEmailPayload{Email: email, ResetURL: resetURL})
	if err != nil {
		return err
	}

	_, err = c.client.Enqueue(
		asynq.NewTask(TaskTypeResetPasswordEmail, payload),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryMax),
		asynq.Timeout(TimeoutShort),
	)
	if err != nil {
		return c.logger.Error("failed to enqueue reset email for %s", err, email)
	}
	return nil
}
