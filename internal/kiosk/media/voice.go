package media

import (
	"strings"
)

// Voice - голос синтезатора речи
type Voice struct {
	Name     string
	Language string
}

// PickVoice выбирает голос для языкового тега: сначала точное совпадение,
// затем совпадение по префиксу языка (до региона). Если ничего не подошло,
// возвращается false и используется голос платформы по умолчанию.
func PickVoice(voices []Voice, language string) (Voice, bool) {
	if language == "" {
		return Voice{}, false
	}

	for _, voice := range voices {
		if strings.EqualFold(voice.Language, language) {
			return voice, true
		}
	}

	prefix := strings.ToLower(language)
	if idx := strings.IndexAny(prefix, "-_"); idx > 0 {
		prefix = prefix[:idx]
	}
	for _, voice := range voices {
		voiceLang := strings.ToLower(voice.Language)
		if voiceLang == prefix || strings.HasPrefix(voiceLang, prefix+"-") || strings.HasPrefix(voiceLang, prefix+"_") {
			return voice, true
		}
	}

	return Voice{}, false
}
