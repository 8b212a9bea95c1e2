package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shenikar/dispatch_dashboard_system/internal/events"
	"github.com/sirupsen/logrus"
)

// EventSink - приёмник push-событий, обычно движок синхронизации
type EventSink interface {
	ApplyEvent(event events.Event)
}

// Pusher держит websocket-подключение к серверу и переподключается
// с фиксированной задержкой при обрыве. Потерянные за время обрыва
// события не доигрываются: их догоняет периодический опрос.
type Pusher struct {
	wsURL  string
	sink   EventSink
	delay  time.Duration
	logger *logrus.Logger
}

func NewPusher(serverURL string, sink EventSink, delay time.Duration, logger *logrus.Logger) (*Pusher, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Pusher{
		wsURL:  wsURL,
		sink:   sink,
		delay:  delay,
		logger: logger,
	}, nil
}

// websocketURL переводит базовый http(s)-адрес сервера в адрес push-канала
func websocketURL(serverURL string) (string, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws"
	return parsed.String(), nil
}

// Run подключается и читает события до отмены контекста
func (p *Pusher) Run(ctx context.Context) {
	log := p.logger.WithField("url", p.wsURL)
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.wsURL, nil)
		if err != nil {
			log.WithError(err).Warn("Push channel connect failed, retrying")
			if !p.sleep(ctx) {
				return
			}
			continue
		}

		log.Info("Push channel connected")
		p.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		log.Info("Push channel lost, reconnecting")
		if !p.sleep(ctx) {
			return
		}
	}
}

func (p *Pusher) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Закрываем соединение при отмене контекста, чтобы разблокировать чтение
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event events.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			p.logger.WithError(err).Warn("Failed to unmarshal push message")
			continue
		}
		if event.Type == "" {
			p.logger.Warn("Dropping push message without type")
			continue
		}
		p.sink.ApplyEvent(event)
	}
}

func (p *Pusher) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(p.delay):
		return true
	}
}
