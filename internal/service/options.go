package service

import (
	"context"
	"fmt"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// OptionsRepository определяет контракт для работы с бд настроек
type OptionsRepository interface {
	Get(ctx context.Context) (*models.Options, error)
	Update(ctx context.Context, options *models.Options) error
}

// OptionsService определяет контракт для бизнес-логики настроек
type OptionsService interface {
	GetOptions(ctx context.Context) (*models.Options, error)
	UpdateOptions(ctx context.Context, patch models.OptionsPatch) (*models.Options, error)
}

type optionsService struct {
	repo   OptionsRepository
	logger *logrus.Logger
}

func NewOptionsService(repo OptionsRepository, logger *logrus.Logger) OptionsService {
	return &optionsService{
		repo:   repo,
		logger: logger,
	}
}

// GetOptions возвращает текущие настройки
func (s *optionsService) GetOptions(ctx context.Context) (*models.Options, error) {
	options, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get options from repository")
		return nil, fmt.Errorf("service: could not get options: %w", err)
	}
	return options, nil
}

// UpdateOptions накладывает частичное обновление на текущие настройки
// и возвращает полный обновлённый объект
func (s *optionsService) UpdateOptions(ctx context.Context, patch models.OptionsPatch) (*models.Options, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "options",
		"method":  "UpdateOptions",
	})
	log.Info("Attempting to update options")

	options, err := s.repo.Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get options for update")
		return nil, fmt.Errorf("service: could not get options for update: %w", err)
	}

	if patch.AudioEnabled != nil {
		options.AudioEnabled = *patch.AudioEnabled
	}
	if patch.SpeechEnabled != nil {
		options.SpeechEnabled = *patch.SpeechEnabled
	}
	if patch.AlarmSound != nil {
		options.AlarmSound = *patch.AlarmSound
	}
	if patch.SpeechLanguage != nil {
		options.SpeechLanguage = *patch.SpeechLanguage
	}
	if patch.WeatherLocation != nil {
		options.WeatherLocation = *patch.WeatherLocation
	}

	if err := s.repo.Update(ctx, options); err != nil {
		log.WithError(err).Error("Failed to update options in repository")
		return nil, fmt.Errorf("service: could not update options: %w", err)
	}

	log.Info("Options updated successfully")
	return options, nil
}
