package alert

import (
	"bytes"
	"testing"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *Detector {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewDetector(logger)
}

func TestDetect_NewToActiveFiresOnce(t *testing.T) {
	// Подготовка
	d := newTestDetector()
	incidents := []*models.Incident{
		{ID: 1, Title: "Wohnungsbrand", Status: models.IncidentStatusNew},
	}
	require.Empty(t, d.Detect(incidents))

	// Действие: переход new -> active
	incidents[0].Status = models.IncidentStatusActive
	intents := d.Detect(incidents)

	// Проверки
	require.Len(t, intents, 1)
	assert.EqualValues(t, 1, intents[0].IncidentID)
	assert.Equal(t, "Wohnungsbrand", intents[0].Title)

	// Повторная детекция того же состояния молчит
	assert.Empty(t, d.Detect(incidents))
}

func TestDetect_SecondChannelDoesNotRealert(t *testing.T) {
	// Переход сообщают оба канала: push-событие, затем снимок опроса.
	// Намерение получает только первый.
	d := newTestDetector()

	intents := d.Detect([]*models.Incident{
		{ID: 1, Title: "Einsatz", Status: models.IncidentStatusActive},
	})
	require.Len(t, intents, 1)

	// Тот же инцидент приходит ещё раз из снимка опроса
	intents = d.Detect([]*models.Incident{
		{ID: 1, Title: "Einsatz", Status: models.IncidentStatusActive},
	})
	assert.Empty(t, intents)
}

func TestDetect_CreatedAlreadyActive(t *testing.T) {
	// Инцидент, созданный сразу в active, тоже даёт намерение
	d := newTestDetector()

	intents := d.Detect([]*models.Incident{
		{ID: 3, Title: "Sofort aktiv", Status: models.IncidentStatusActive},
	})

	require.Len(t, intents, 1)
	assert.EqualValues(t, 3, intents[0].IncidentID)
}

func TestDetect_ReactivationFiresAgain(t *testing.T) {
	// active -> closed -> active даёт второе намерение
	d := newTestDetector()
	incidents := []*models.Incident{
		{ID: 2, Title: "Flackernder Einsatz", Status: models.IncidentStatusActive},
	}
	require.Len(t, d.Detect(incidents), 1)

	incidents[0].Status = models.IncidentStatusClosed
	require.Empty(t, d.Detect(incidents))

	incidents[0].Status = models.IncidentStatusActive
	intents := d.Detect(incidents)
	require.Len(t, intents, 1)
	assert.EqualValues(t, 2, intents[0].IncidentID)
}

func TestDetect_DeletionIsSilent(t *testing.T) {
	// Удаление активного инцидента чистит реестр без намерений
	d := newTestDetector()
	require.Len(t, d.Detect([]*models.Incident{
		{ID: 4, Title: "Wird gelöscht", Status: models.IncidentStatusActive},
	}), 1)

	intents := d.Detect([]*models.Incident{})
	assert.Empty(t, intents)
	assert.Empty(t, d.ActiveIDs())

	// Появление заново после удаления считается новым переходом
	require.Len(t, d.Detect([]*models.Incident{
		{ID: 4, Title: "Wieder da", Status: models.IncidentStatusActive},
	}), 1)
}

func TestDetect_MultipleTransitionsInOneMerge(t *testing.T) {
	d := newTestDetector()

	intents := d.Detect([]*models.Incident{
		{ID: 1, Title: "Erster", Status: models.IncidentStatusActive},
		{ID: 2, Title: "Zweiter", Status: models.IncidentStatusActive},
		{ID: 3, Title: "Ruhig", Status: models.IncidentStatusNew},
	})

	assert.Len(t, intents, 2)
	assert.Len(t, d.ActiveIDs(), 2)
}

func TestBuildMessage_FullIncident(t *testing.T) {
	incident := &models.Incident{
		ID:          1,
		Title:       "Wohnungsbrand",
		Description: "Rauchentwicklung im dritten Stock",
		Address:     "Hauptstrasse 12",
		Vehicles: []models.VehicleRef{
			{ID: 1, Name: "LF 10"},
			{ID: 2, Name: "DLK 23"},
		},
	}

	message := buildMessage(incident)

	assert.Equal(t, "Neuer Einsatz! Wohnungsbrand: Rauchentwicklung im dritten Stock. Fahrzeuge LF 10, DLK 23 ausrücken zu Hauptstrasse 12", message)
}

func TestBuildMessage_SparseIncident(t *testing.T) {
	// Пустые поля не оставляют висящих разделителей
	incident := &models.Incident{
		ID:    2,
		Title: "Einsatz ohne Details",
	}

	message := buildMessage(incident)

	assert.Equal(t, "Neuer Einsatz! Einsatz ohne Details", message)
}
