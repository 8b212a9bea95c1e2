package models

// Options - настройки оператора. Единственная строка в бд, читается целиком
// и обновляется частичным сохранением.
type Options struct {
	AudioEnabled    bool   `json:"audio_enabled"`
	SpeechEnabled   bool   `json:"speech_enabled"`
	AlarmSound      string `json:"alarm_sound"`
	SpeechLanguage  string `json:"speech_language"`
	WeatherLocation string `json:"weather_location"`
}

// OptionsPatch - частичное обновление настроек, nil-поля не меняются
type OptionsPatch struct {
	AudioEnabled    *bool
	SpeechEnabled   *bool
	AlarmSound      *string
	SpeechLanguage  *string
	WeatherLocation *string
}
