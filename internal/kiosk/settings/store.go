// Package settings хранит настройки оператора на стороне киоска.
// Источник истины - сервер: после успешного сохранения состоянием
// становится полный объект из ответа.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/transport"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// OptionsAPI - серверные операции с настройками
type OptionsAPI interface {
	FetchOptions(ctx context.Context) (*models.Options, error)
	SaveOptions(ctx context.Context, patch transport.OptionsPatch) (*models.Options, error)
}

// Store кеширует настройки и оповещает подписчиков (движок, погоду)
// о каждом обновлении
type Store struct {
	api    OptionsAPI
	logger *logrus.Logger

	mu        sync.Mutex
	current   models.Options
	listeners []func(models.Options)
}

func NewStore(api OptionsAPI, logger *logrus.Logger) *Store {
	return &Store{
		api:    api,
		logger: logger,
		current: models.Options{
			// Значения до первой загрузки с сервера
			AudioEnabled:   true,
			SpeechEnabled:  true,
			AlarmSound:     "gong1.mp3",
			SpeechLanguage: "de-DE",
		},
	}
}

// OnChange регистрирует подписчика. Подписчик сразу получает текущий снимок.
func (s *Store) OnChange(fn func(models.Options)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	snapshot := s.current
	s.mu.Unlock()
	fn(snapshot)
}

// Current возвращает текущий снимок настроек
func (s *Store) Current() models.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Load забирает настройки с сервера и оповещает подписчиков
func (s *Store) Load(ctx context.Context) error {
	options, err := s.api.FetchOptions(ctx)
	if err != nil {
		return fmt.Errorf("settings: could not load options: %w", err)
	}
	s.apply(*options)
	s.logger.Info("Settings loaded")
	return nil
}

// Save отправляет частичное обновление, полный объект из ответа
// становится новым состоянием
func (s *Store) Save(ctx context.Context, patch transport.OptionsPatch) error {
	options, err := s.api.SaveOptions(ctx, patch)
	if err != nil {
		return fmt.Errorf("settings: could not save options: %w", err)
	}
	s.apply(*options)
	s.logger.Info("Settings saved")
	return nil
}

func (s *Store) apply(options models.Options) {
	s.mu.Lock()
	s.current = options
	listeners := make([]func(models.Options), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(options)
	}
}
