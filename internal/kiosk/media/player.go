// Package media реализует звуковые порты секвенсора поверх внешних
// проигрывателей (ffplay, espeak-ng). Киоск работает на обычном линукс-боксе,
// в паке нет библиотеки локального воспроизведения, поэтому порты держат
// ядро тестируемым, а реализация остаётся заменяемой.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/kiosk/alarm"
	"github.com/sirupsen/logrus"
)

// ExecPlayer проигрывает звуковые файлы внешней командой
type ExecPlayer struct {
	command  string
	soundDir string
	logger   *logrus.Logger
}

func NewExecPlayer(command, soundDir string, logger *logrus.Logger) *ExecPlayer {
	return &ExecPlayer{
		command:  command,
		soundDir: soundDir,
		logger:   logger,
	}
}

// Play запускает воспроизведение и возвращает управление немедленно.
// Длительность носителя определяется ffprobe в фоне и отдаётся секвенсору,
// как только стала известна.
func (p *ExecPlayer) Play(ctx context.Context, sound string) (alarm.Playback, error) {
	path := filepath.Join(p.soundDir, filepath.Base(sound))

	cmd := exec.CommandContext(ctx, p.command, p.playerArgs(path)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start audio player: %w", err)
	}

	playback := &execPlayback{
		cmd:      cmd,
		done:     make(chan struct{}),
		duration: make(chan time.Duration, 1),
	}

	go func() {
		// Код возврата не важен: прерванное воспроизведение не ошибка
		_ = cmd.Wait()
		close(playback.done)
	}()
	go p.probeDuration(ctx, path, playback.duration)

	return playback, nil
}

func (p *ExecPlayer) playerArgs(path string) []string {
	switch filepath.Base(p.command) {
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	case "mpv":
		return []string{"--no-video", "--really-quiet", path}
	default:
		return []string{path}
	}
}

// probeDuration спрашивает длительность файла у ffprobe. Любая ошибка
// молча игнорируется: секвенсор обойдётся потолочным таймером.
func (p *ExecPlayer) probeDuration(ctx context.Context, path string, out chan<- time.Duration) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	raw, err := cmd.Output()
	if err != nil {
		p.logger.WithError(err).Debug("Failed to probe sound duration")
		return
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil || seconds <= 0 {
		return
	}
	select {
	case out <- time.Duration(seconds * float64(time.Second)):
	default:
	}
}

type execPlayback struct {
	cmd      *exec.Cmd
	done     chan struct{}
	duration chan time.Duration
	stopOnce sync.Once
}

func (p *execPlayback) Done() <-chan struct{} {
	return p.done
}

func (p *execPlayback) Duration() <-chan time.Duration {
	return p.duration
}

func (p *execPlayback) Stop() {
	p.stopOnce.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
	})
}
