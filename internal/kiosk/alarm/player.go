package alarm

import (
	"context"
	"time"
)

// Playback - одно запущенное воспроизведение звука
type Playback interface {
	// Done закрывается при естественном окончании воспроизведения
	Done() <-chan struct{}
	// Duration отдаёт длительность носителя, как только она стала известна.
	// Канал может не отдать ничего вовсе.
	Duration() <-chan time.Duration
	// Stop прерывает воспроизведение
	Stop()
}

// AudioPlayer запускает воспроизведение звука тревоги
type AudioPlayer interface {
	Play(ctx context.Context, sound string) (Playback, error)
}

// SpeechSynthesizer проговаривает текст. Запуск нового проговаривания
// обязан отменить предыдущее: в системе звучит не более одной фразы.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text, language string) error
	Cancel()
}
