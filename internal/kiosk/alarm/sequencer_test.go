package alarm

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alert"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayback - управляемое из теста воспроизведение
type fakePlayback struct {
	done     chan struct{}
	duration chan time.Duration

	mu      sync.Mutex
	stopped bool
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{
		done:     make(chan struct{}),
		duration: make(chan time.Duration, 1),
	}
}

func (p *fakePlayback) Done() <-chan struct{}          { return p.done }
func (p *fakePlayback) Duration() <-chan time.Duration { return p.duration }

func (p *fakePlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}

func (p *fakePlayback) wasStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// fakePlayer возвращает заранее подготовленное воспроизведение
type fakePlayer struct {
	mu       sync.Mutex
	playback *fakePlayback
	err      error
	plays    []string
}

func (f *fakePlayer) Play(ctx context.Context, sound string) (Playback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, sound)
	if f.err != nil {
		return nil, f.err
	}
	return f.playback, nil
}

func (f *fakePlayer) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

// fakeSynthesizer записывает проговоренные фразы
type fakeSynthesizer struct {
	mu        sync.Mutex
	spoken    []string
	languages []string
}

func (f *fakeSynthesizer) Speak(ctx context.Context, text, language string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	f.languages = append(f.languages, language)
	return nil
}

func (f *fakeSynthesizer) Cancel() {}

func (f *fakeSynthesizer) spokenTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func newTestSequencer(t *testing.T, audio AudioPlayer, speech SpeechSynthesizer, settings Settings) (*Sequencer, *Gate) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	gate := NewGate()
	gate.Unlock() // По умолчанию ворота открыты, тесты ворот закрывают их сами
	return NewSequencer(audio, speech, gate, settings, logger), gate
}

func defaultSettings() Settings {
	return Settings{
		AudioEnabled:   true,
		SpeechEnabled:  true,
		AlarmSound:     "gong1.mp3",
		SpeechLanguage: "de-DE",
	}
}

func testIntent() alert.Intent {
	return alert.Intent{
		IncidentID: 1,
		Title:      "Wohnungsbrand",
		Message:    "Neuer Einsatz! Wohnungsbrand",
		DetectedAt: time.Now(),
	}
}

func TestProcess_AudioDisabledSkipsToSpeech(t *testing.T) {
	// Подготовка
	player := &fakePlayer{playback: newFakePlayback()}
	speech := &fakeSynthesizer{}
	settings := defaultSettings()
	settings.AudioEnabled = false
	s, _ := newTestSequencer(t, player, speech, settings)

	// Действие
	s.process(context.Background(), testIntent())

	// Проверки: звук не запускался, речь проговорена сразу
	assert.Equal(t, 0, player.playCount())
	assert.Equal(t, []string{"Neuer Einsatz! Wohnungsbrand"}, speech.spokenTexts())
}

func TestProcess_PlayFailureStillSpeaks(t *testing.T) {
	// Сбой запуска звука пропускает этап, но не глушит речь
	player := &fakePlayer{err: errors.New("ffplay not found")}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	s.process(context.Background(), testIntent())

	assert.Equal(t, 1, player.playCount())
	assert.Len(t, speech.spokenTexts(), 1)
}

func TestProcess_NaturalEndAdvancesStage(t *testing.T) {
	// Подготовка: воспроизведение заканчивается само
	playback := newFakePlayback()
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(playback.done)
	}()

	// Действие
	start := time.Now()
	s.process(context.Background(), testIntent())

	// Проверки: этап 2 наступил по естественному концу, задолго до потолка
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, speech.spokenTexts(), 1)
}

func TestProcess_DurationTimerAdvancesStage(t *testing.T) {
	// Носитель сообщил длительность, естественный конец не приходит:
	// этап продвигает таймер длительность+запас
	playback := newFakePlayback()
	playback.duration <- 30 * time.Millisecond
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	start := time.Now()
	s.process(context.Background(), testIntent())

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.True(t, playback.wasStopped())
	assert.Len(t, speech.spokenTexts(), 1)
}

func TestProcess_CeilingAdvancesStage(t *testing.T) {
	// Ни конца, ни длительности: потолок ожидания продвигает этап
	playback := newFakePlayback()
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	start := time.Now()
	s.process(context.Background(), testIntent())

	assert.GreaterOrEqual(t, time.Since(start), audioCeiling)
	assert.True(t, playback.wasStopped())
	assert.Len(t, speech.spokenTexts(), 1)
}

func TestProcess_SpeechDisabledStopsAfterAudio(t *testing.T) {
	playback := newFakePlayback()
	close(playback.done)
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	settings := defaultSettings()
	settings.SpeechEnabled = false
	s, _ := newTestSequencer(t, player, speech, settings)

	s.process(context.Background(), testIntent())

	assert.Equal(t, 1, player.playCount())
	assert.Empty(t, speech.spokenTexts())
}

func TestProcess_EmptyMessageSkipsSpeech(t *testing.T) {
	playback := newFakePlayback()
	close(playback.done)
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	intent := testIntent()
	intent.Message = ""
	s.process(context.Background(), intent)

	assert.Empty(t, speech.spokenTexts())
}

func TestProcess_LockedGateDefersSpeech(t *testing.T) {
	// Подготовка: ворота разрешений закрыты
	playback := newFakePlayback()
	close(playback.done)
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	gate := NewGate()
	s := NewSequencer(player, speech, gate, defaultSettings(), logger)

	// Действие: две тревоги до первого жеста пользователя
	first := testIntent()
	second := testIntent()
	second.IncidentID = 2
	second.Message = "Neuer Einsatz! Verkehrsunfall"
	s.process(context.Background(), first)
	s.process(context.Background(), second)

	// Проверки: речи не было, звук играл оба раза
	assert.Empty(t, speech.spokenTexts())
	assert.Equal(t, 2, player.playCount())

	// Жест пользователя: проговаривается только самый свежий отложенный текст
	s.Unlock()
	assert.Equal(t, []string{"Neuer Einsatz! Verkehrsunfall"}, speech.spokenTexts())

	// Повторный жест ничего не доигрывает
	s.Unlock()
	assert.Len(t, speech.spokenTexts(), 1)
}

func TestRun_ProcessesQueueSerially(t *testing.T) {
	// Два намерения обрабатываются по одному в порядке поступления
	playback := newFakePlayback()
	close(playback.done)
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	first := testIntent()
	second := testIntent()
	second.IncidentID = 2
	second.Message = "Zweiter Einsatz"
	s.Enqueue(first)
	s.Enqueue(second)

	require.Eventually(t, func() bool {
		return len(speech.spokenTexts()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Neuer Einsatz! Wohnungsbrand", "Zweiter Einsatz"}, speech.spokenTexts())
}

func TestEnqueue_FullQueueDoesNotBlock(t *testing.T) {
	// Очередь переполнена, Run не запущен: Enqueue обязан вернуться сразу
	player := &fakePlayer{playback: newFakePlayback()}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	for i := 0; i < queueCapacity+5; i++ {
		s.Enqueue(testIntent())
	}
	// Дошли сюда без блокировки - поведение корректно
}

func TestUpdateSettings_AppliesToNextIntent(t *testing.T) {
	playback := newFakePlayback()
	close(playback.done)
	player := &fakePlayer{playback: playback}
	speech := &fakeSynthesizer{}
	s, _ := newTestSequencer(t, player, speech, defaultSettings())

	settings := defaultSettings()
	settings.AudioEnabled = false
	settings.SpeechLanguage = "en-US"
	s.UpdateSettings(settings)

	s.process(context.Background(), testIntent())

	assert.Equal(t, 0, player.playCount())
	require.Len(t, speech.languages, 1)
	assert.Equal(t, "en-US", speech.languages[0])
}
