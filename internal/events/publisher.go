package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
)

const (
	eventQueueKey = "dashboard_events"
)

// Типы событий push-канала: "<kind>_<action>"
const (
	TypeIncidentCreated = "incident_created"
	TypeIncidentUpdated = "incident_updated"
	TypeIncidentDeleted = "incident_deleted"
	TypeVehicleCreated  = "vehicle_created"
	TypeVehicleUpdated  = "vehicle_updated"
	TypeVehicleDeleted  = "vehicle_deleted"
)

// Event - сообщение push-канала. Для created/updated заполнена сущность,
// для deleted только её id.
type Event struct {
	Type       string           `json:"type"`
	Incident   *models.Incident `json:"incident,omitempty"`
	Vehicle    *models.Vehicle  `json:"vehicle,omitempty"`
	IncidentID int64            `json:"incident_id,omitempty"`
	VehicleID  int64            `json:"vehicle_id,omitempty"`
}

// Publisher - интерфейс для публикации событий изменения данных
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher - реализация Publisher, использующая очередь в Redis.
// Сервисы кладут события в очередь, воркер раздаёт их по websocket-клиентам.
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to Redis: %w", err)
	}
	return nil
}
