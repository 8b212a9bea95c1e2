package alarm

import (
	"sync"
)

// Gate отслеживает разрешение платформы на воспроизведение речи.
// До первого жеста пользователя речь запрещена: пока ворота закрыты,
// хранится не более одного отложенного текста (самый свежий).
type Gate struct {
	mu         sync.Mutex
	unlocked   bool
	pending    string
	hasPending bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Admit проверяет, можно ли говорить сейчас. Если ворота закрыты,
// текст запоминается как отложенный (перезаписывая предыдущий) и
// возвращается false.
func (g *Gate) Admit(text string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unlocked {
		return true
	}
	g.pending = text
	g.hasPending = true
	return false
}

// Unlock переводит ворота в открытое состояние и возвращает отложенный
// текст, если он есть. Повторные вызовы ничего не возвращают.
func (g *Gate) Unlock() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unlocked {
		return "", false
	}
	g.unlocked = true

	if !g.hasPending {
		return "", false
	}
	text := g.pending
	g.pending = ""
	g.hasPending = false
	return text, true
}

// Unlocked сообщает текущее состояние ворот
func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}
