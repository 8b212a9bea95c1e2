package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/shenikar/dispatch_dashboard_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestOptionsService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestOptionsService(t *testing.T) (*optionsService, *mocks.MockOptionsRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockOptionsRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewOptionsService(repoMock, logger)
	return service.(*optionsService), repoMock
}

func TestGetOptions_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestOptionsService(t)
	ctx := context.Background()
	expectedOptions := &models.Options{
		AudioEnabled:   true,
		SpeechEnabled:  true,
		AlarmSound:     "gong1.mp3",
		SpeechLanguage: "de-DE",
	}

	// Ожидания
	repoMock.EXPECT().
		Get(ctx).
		Return(expectedOptions, nil).
		Times(1)

	// Действие
	options, err := service.GetOptions(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedOptions, options)
}

func TestGetOptions_RepositoryError(t *testing.T) {
	// Подготовка
	service, repoMock := newTestOptionsService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		Get(ctx).
		Return(nil, fmt.Errorf("db error")).
		Times(1)

	// Действие
	options, err := service.GetOptions(ctx)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, options)
	assert.ErrorContains(t, err, "could not get options")
}

func TestUpdateOptions_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestOptionsService(t)
	ctx := context.Background()
	current := &models.Options{
		AudioEnabled:   true,
		SpeechEnabled:  true,
		AlarmSound:     "gong1.mp3",
		SpeechLanguage: "de-DE",
	}
	speechEnabled := false
	location := "Berlin"
	patch := models.OptionsPatch{
		SpeechEnabled:   &speechEnabled,
		WeatherLocation: &location,
	}

	// Ожидания
	repoMock.EXPECT().
		Get(ctx).
		Return(current, nil).
		Times(1)
	repoMock.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, options *models.Options) error {
			// nil-поля патча не трогают текущие значения
			assert.True(t, options.AudioEnabled)
			assert.False(t, options.SpeechEnabled)
			assert.Equal(t, "gong1.mp3", options.AlarmSound)
			assert.Equal(t, "Berlin", options.WeatherLocation)
			return nil
		}).
		Times(1)

	// Действие
	options, err := service.UpdateOptions(ctx, patch)

	// Проверки
	require.NoError(t, err)
	assert.False(t, options.SpeechEnabled)
	assert.Equal(t, "Berlin", options.WeatherLocation)
}

func TestUpdateOptions_GetError(t *testing.T) {
	// Подготовка
	service, repoMock := newTestOptionsService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		Get(ctx).
		Return(nil, fmt.Errorf("db error")).
		Times(1)

	// Действие
	options, err := service.UpdateOptions(ctx, models.OptionsPatch{})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, options)
	assert.ErrorContains(t, err, "could not get options for update")
}

func TestUpdateOptions_UpdateError(t *testing.T) {
	// Подготовка
	service, repoMock := newTestOptionsService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		Get(ctx).
		Return(&models.Options{}, nil).
		Times(1)
	repoMock.EXPECT().
		Update(ctx, gomock.Any()).
		Return(fmt.Errorf("db error")).
		Times(1)

	// Действие
	options, err := service.UpdateOptions(ctx, models.OptionsPatch{})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, options)
	assert.ErrorContains(t, err, "could not update options")
}
