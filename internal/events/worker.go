package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Broadcaster - приёмник событий, обычно websocket-хаб
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Worker читает очередь событий из Redis и раздаёт их подключенным клиентам
type Worker struct {
	redisClient *redis.Client
	broadcaster Broadcaster
	logger      *logrus.Logger
	retryDelay  time.Duration
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, broadcaster Broadcaster, logger *logrus.Logger) *Worker {
	return &Worker{
		redisClient: redisClient,
		broadcaster: broadcaster,
		logger:      logger,
		retryDelay:  time.Second,
	}
}

// Start запускает горутину для обработки очереди событий
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting events worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping events worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка (очереди)
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, eventQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop event from Redis")
					time.Sleep(w.retryDelay)
					continue
				}

				// result[0] - ключ, result[1] - значение
				payload := []byte(result[1])
				var event Event
				if err := json.Unmarshal(payload, &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal event from Redis")
					continue
				}

				w.logger.WithField("event_type", event.Type).Debug("Broadcasting event")
				w.broadcaster.Broadcast(payload)
			}
		}
	}()
}
