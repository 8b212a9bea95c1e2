package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shenikar/dispatch_dashboard_system/internal/config"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alarm"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/media"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/settings"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/transport"
	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/weather"
	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/shenikar/dispatch_dashboard_system/pkg/logger"
	"github.com/sirupsen/logrus"
)

// alarmSettings проецирует настройки оператора на снимок для конвейера тревог
func alarmSettings(options models.Options) alarm.Settings {
	return alarm.Settings{
		AudioEnabled:   options.AudioEnabled,
		SpeechEnabled:  options.SpeechEnabled,
		AlarmSound:     options.AlarmSound,
		SpeechLanguage: options.SpeechLanguage,
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Медиа-подсистемы: внешний проигрыватель и синтезатор речи
	audio := media.NewExecPlayer(cfg.AudioPlayerCommand, cfg.SoundDir, log)
	speech := media.NewExecSynthesizer(cfg.SpeechCommand, log)

	// Ворота разрешений: речь молчит до первого жеста пользователя
	gate := alarm.NewGate()

	// HTTP-клиент сервера и хранилище настроек
	client := transport.NewClient(cfg.ServerURL, cfg.ServerAPIKey, cfg.RequestTimeout, log)
	store := settings.NewStore(client, log)

	initial := alarmSettings(store.Current())

	// Конвейер тревог и движок синхронизации состояния
	sequencer := alarm.NewSequencer(audio, speech, gate, initial, log)
	engine := kiosk.NewEngine(sequencer, initial, log)

	// Погода для панели
	weatherClient := weather.NewClient(cfg.RequestTimeout, cfg.WeatherInterval, log)

	// Каждое обновление настроек расходится по подписчикам
	store.OnChange(func(options models.Options) {
		engine.UpdateSettings(options)
		sequencer.UpdateSettings(alarmSettings(options))
		weatherClient.SetLocation(options.WeatherLocation)
	})

	// Первая загрузка настроек. Сбой не фатален: работаем на значениях
	// по умолчанию, пока сервер не ответит.
	if err := store.Load(ctx); err != nil {
		log.WithError(err).Warn("Initial settings load failed, using defaults")
	}

	// Транспорты: push-канал и страховочный опрос
	pusher, err := transport.NewPusher(cfg.ServerURL, engine, cfg.ReconnectDelay, log)
	if err != nil {
		log.Fatalf("Failed to create push channel: %v", err)
	}
	poller := transport.NewPoller(client, engine, cfg.IncidentPollInterval, cfg.VehiclePollInterval, log)

	go engine.Run(ctx)
	go sequencer.Run(ctx)
	go pusher.Run(ctx)
	go weatherClient.Run(ctx)
	poller.Start(ctx)

	// Любой ввод с клавиатуры - жест пользователя, открывающий речь
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			if _, err := reader.ReadByte(); err != nil {
				return
			}
			sequencer.Unlock()
		}
	}()

	log.Info("Kiosk started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, stopping kiosk...")

	cancel()
	speech.Cancel()
	log.Info("Kiosk stopped")
}
