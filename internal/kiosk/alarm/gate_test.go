package alarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_AdmitBeforeUnlockDefers(t *testing.T) {
	g := NewGate()

	assert.False(t, g.Admit("первый текст"))
	assert.False(t, g.Unlocked())
}

func TestGate_UnlockReturnsLatestPending(t *testing.T) {
	// Пока ворота закрыты, хранится только самый свежий текст
	g := NewGate()
	g.Admit("старый текст")
	g.Admit("свежий текст")

	text, ok := g.Unlock()

	require.True(t, ok)
	assert.Equal(t, "свежий текст", text)
}

func TestGate_UnlockWithoutPending(t *testing.T) {
	g := NewGate()

	_, ok := g.Unlock()

	assert.False(t, ok)
	assert.True(t, g.Unlocked())
}

func TestGate_AdmitAfterUnlockPasses(t *testing.T) {
	g := NewGate()
	g.Unlock()

	assert.True(t, g.Admit("любой текст"))
}

func TestGate_SecondUnlockReturnsNothing(t *testing.T) {
	// Отложенный текст проговаривается один раз
	g := NewGate()
	g.Admit("текст")

	_, ok := g.Unlock()
	require.True(t, ok)

	_, ok = g.Unlock()
	assert.False(t, ok)
}
