package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/shenikar/dispatch_dashboard_system/internal/service"
)

type OptionsRepository struct {
	db *pgxpool.Pool
}

func NewOptionsRepository(db *pgxpool.Pool) service.OptionsRepository {
	return &OptionsRepository{db: db}
}

// Get возвращает единственную строку настроек (создаётся миграцией)
func (r *OptionsRepository) Get(ctx context.Context) (*models.Options, error) {
	options := &models.Options{}
	query := `
		SELECT audio_enabled, speech_enabled, alarm_sound, speech_language, weather_location
		FROM options
		WHERE id = 1;
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&options.AudioEnabled,
		&options.SpeechEnabled,
		&options.AlarmSound,
		&options.SpeechLanguage,
		&options.WeatherLocation,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	return options, nil
}

// Update перезаписывает строку настроек целиком
func (r *OptionsRepository) Update(ctx context.Context, options *models.Options) error {
	query := `
		UPDATE options SET
			audio_enabled = $1,
			speech_enabled = $2,
			alarm_sound = $3,
			speech_language = $4,
			weather_location = $5
		WHERE id = 1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		options.AudioEnabled,
		options.SpeechEnabled,
		options.AlarmSound,
		options.SpeechLanguage,
		options.WeatherLocation,
	)
	if err != nil {
		return fmt.Errorf("failed to update options: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("options row not found for update")
	}
	return nil
}
