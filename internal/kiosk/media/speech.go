package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ExecSynthesizer проговаривает текст внешней командой (espeak-ng).
// В каждый момент звучит не более одной фразы: новый Speak убивает
// процесс предыдущей.
type ExecSynthesizer struct {
	command string
	voices  []Voice
	logger  *logrus.Logger

	mu      sync.Mutex
	current *exec.Cmd
}

func NewExecSynthesizer(command string, logger *logrus.Logger) *ExecSynthesizer {
	s := &ExecSynthesizer{
		command: command,
		logger:  logger,
	}
	s.voices = s.loadVoices()
	return s
}

// loadVoices разбирает вывод `espeak-ng --voices`. Ошибка не фатальна:
// без списка голосов используется голос по умолчанию.
func (s *ExecSynthesizer) loadVoices() []Voice {
	raw, err := exec.Command(s.command, "--voices").Output()
	if err != nil {
		s.logger.WithError(err).Debug("Failed to list speech voices")
		return nil
	}

	var voices []Voice
	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		if i == 0 { // заголовок таблицы
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{
			Language: fields[1],
			Name:     fields[3],
		})
	}
	s.logger.WithField("count", len(voices)).Debug("Speech voices loaded")
	return voices
}

// Speak запускает проговаривание и возвращает управление немедленно
func (s *ExecSynthesizer) Speak(ctx context.Context, text, language string) error {
	args := []string{}
	if voice, ok := PickVoice(s.voices, language); ok {
		args = append(args, "-v", voice.Name)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, s.command, args...)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Отменяем предыдущую фразу до запуска новой
	s.cancelLocked()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start speech synthesizer: %w", err)
	}
	s.current = cmd

	go func() {
		_ = cmd.Wait()
		s.mu.Lock()
		if s.current == cmd {
			s.current = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

// Cancel прерывает текущую фразу, если она звучит
func (s *ExecSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *ExecSynthesizer) cancelLocked() {
	if s.current != nil && s.current.Process != nil {
		_ = s.current.Process.Kill()
	}
	s.current = nil
}
