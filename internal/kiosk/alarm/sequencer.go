package alarm

import (
	"context"
	"sync"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alert"
	"github.com/sirupsen/logrus"
)

const (
	// Потолок ожидания конца звука, если носитель не сообщил длительность
	audioCeiling = 3 * time.Second
	// Запас поверх сообщённой длительности носителя
	durationMargin = 100 * time.Millisecond

	queueCapacity = 64
)

// Settings - снимок настроек, по которому секвенсор обрабатывает намерение.
// Снимок внедряется заново при каждом сохранении настроек.
type Settings struct {
	AudioEnabled   bool
	SpeechEnabled  bool
	AlarmSound     string
	SpeechLanguage string
}

// Sequencer обрабатывает намерения тревог строго по одному в порядке
// поступления: сначала звук, затем речь. Любой сбой медиа-подсистем
// лишь пропускает этап, очередь никогда не застревает.
type Sequencer struct {
	audio  AudioPlayer
	speech SpeechSynthesizer
	gate   *Gate
	logger *logrus.Logger

	queue chan alert.Intent

	mu       sync.Mutex
	settings Settings
}

func NewSequencer(audio AudioPlayer, speech SpeechSynthesizer, gate *Gate, settings Settings, logger *logrus.Logger) *Sequencer {
	return &Sequencer{
		audio:    audio,
		speech:   speech,
		gate:     gate,
		logger:   logger,
		queue:    make(chan alert.Intent, queueCapacity),
		settings: settings,
	}
}

// UpdateSettings заменяет снимок настроек для последующих намерений
func (s *Sequencer) UpdateSettings(settings Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func (s *Sequencer) currentSettings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Enqueue ставит намерение в очередь. При переполнении намерение
// отбрасывается с диагностикой: блокировать конвейер слияний нельзя.
func (s *Sequencer) Enqueue(intent alert.Intent) {
	select {
	case s.queue <- intent:
	default:
		s.logger.WithField("incident_id", intent.IncidentID).Warn("Alarm queue full, dropping intent")
	}
}

// Unlock открывает ворота разрешений и проговаривает отложенный текст,
// если он накопился, обычным путём. Вызывается по первому жесту пользователя.
func (s *Sequencer) Unlock() {
	text, ok := s.gate.Unlock()
	if !ok {
		return
	}
	settings := s.currentSettings()
	if !settings.SpeechEnabled {
		return
	}
	s.logger.Info("Permission gate unlocked, flushing pending speech")
	s.speak(context.Background(), text, settings.SpeechLanguage)
}

// Run обрабатывает очередь до отмены контекста
func (s *Sequencer) Run(ctx context.Context) {
	s.logger.Info("Starting alarm sequencer...")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping alarm sequencer.")
			return
		case intent := <-s.queue:
			s.process(ctx, intent)
		}
	}
}

// process проигрывает звук (этап 1), затем проговаривает текст (этап 2)
func (s *Sequencer) process(ctx context.Context, intent alert.Intent) {
	log := s.logger.WithField("incident_id", intent.IncidentID)
	settings := s.currentSettings()

	if settings.AudioEnabled {
		s.playAudio(ctx, settings.AlarmSound, log)
	}

	if ctx.Err() != nil {
		return
	}

	// Этап 2: речь
	if !settings.SpeechEnabled || intent.Message == "" {
		return
	}
	if !s.gate.Admit(intent.Message) {
		log.Debug("Permission gate locked, speech deferred")
		return
	}
	s.speak(ctx, intent.Message, settings.SpeechLanguage)
}

// playAudio ждёт окончания звука, каким бы сигналом оно ни пришло первым:
// естественный конец, таймер по сообщённой длительности или потолок.
// Сработавший первым сигнал продвигает этап ровно один раз, остальные
// таймеры гасятся до завершения намерения.
func (s *Sequencer) playAudio(ctx context.Context, sound string, log *logrus.Entry) {
	playback, err := s.audio.Play(ctx, sound)
	if err != nil {
		log.WithError(err).Warn("Failed to start alarm sound, skipping audio stage")
		return
	}

	ceiling := time.NewTimer(audioCeiling)
	defer ceiling.Stop()

	var durationTimer *time.Timer
	defer func() {
		if durationTimer != nil {
			durationTimer.Stop()
		}
	}()

	durationCh := playback.Duration()
	var durationFired <-chan time.Time

	for {
		select {
		case <-playback.Done():
			return
		case d := <-durationCh:
			if durationTimer == nil && d > 0 {
				durationTimer = time.NewTimer(d + durationMargin)
				durationFired = durationTimer.C
			}
			durationCh = nil
		case <-durationFired:
			playback.Stop()
			return
		case <-ceiling.C:
			log.Debug("Alarm sound ceiling reached")
			playback.Stop()
			return
		case <-ctx.Done():
			playback.Stop()
			return
		}
	}
}

func (s *Sequencer) speak(ctx context.Context, text, language string) {
	// Новая фраза отменяет предыдущую внутри синтезатора
	if err := s.speech.Speak(ctx, text, language); err != nil {
		s.logger.WithError(err).Warn("Failed to start speech, skipping speech stage")
	}
}
