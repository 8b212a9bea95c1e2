// Package alert выделяет из свежесведённого состояния переходы инцидентов
// в статус active и превращает каждый переход ровно в одно намерение тревоги.
package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/dispatch_dashboard_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Intent - намерение тревоги для одного перехода инцидента в active
type Intent struct {
	IncidentID int64
	Title      string
	Message    string
	DetectedAt time.Time
}

// Detector ведёт реестр активных id и выделяет фронт неактивный->активный.
// Реестр обновляется в том же вызове, что и детекция: какой бы канал
// (push или опрос) ни сообщил переход первым, второй уже увидит id в
// реестре и ничего не выдаст.
type Detector struct {
	active map[int64]struct{}
	logger *logrus.Logger
	now    func() time.Time
}

func NewDetector(logger *logrus.Logger) *Detector {
	return &Detector{
		active: make(map[int64]struct{}),
		logger: logger,
		now:    time.Now,
	}
}

// Detect сравнивает текущую коллекцию инцидентов с реестром активных id
// и возвращает намерения для всех новых переходов в active. Реестр
// замещается полным множеством активных id атомарно с детекцией.
// Инцидент, созданный сразу в статусе active, тоже считается переходом.
// Удалённые и закрытые инциденты покидают реестр без намерений.
func (d *Detector) Detect(incidents []*models.Incident) []Intent {
	nextActive := make(map[int64]struct{})
	var intents []Intent

	for _, incident := range incidents {
		if incident.Status != models.IncidentStatusActive {
			continue
		}
		nextActive[incident.ID] = struct{}{}
		if _, known := d.active[incident.ID]; known {
			continue
		}
		intent := Intent{
			IncidentID: incident.ID,
			Title:      incident.Title,
			Message:    buildMessage(incident),
			DetectedAt: d.now(),
		}
		intents = append(intents, intent)
		d.logger.WithFields(logrus.Fields{
			"incident_id": incident.ID,
			"title":       incident.Title,
		}).Info("Incident became active")
	}

	d.active = nextActive
	return intents
}

// ActiveIDs возвращает текущее содержимое реестра (для отладки и тестов)
func (d *Detector) ActiveIDs() []int64 {
	ids := make([]int64, 0, len(d.active))
	for id := range d.active {
		ids = append(ids, id)
	}
	return ids
}

// buildMessage собирает единый текст тревоги из заголовка, описания,
// адреса и имён назначенных машин. Раньше текст собирался в трёх местах
// по-разному, теперь формат один для всех каналов.
func buildMessage(incident *models.Incident) string {
	names := make([]string, 0, len(incident.Vehicles))
	for _, ref := range incident.Vehicles {
		names = append(names, ref.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Neuer Einsatz! %s", incident.Title)
	if incident.Description != "" {
		fmt.Fprintf(&b, ": %s", incident.Description)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, ". Fahrzeuge %s", strings.Join(names, ", "))
	}
	if incident.Address != "" {
		fmt.Fprintf(&b, " ausrücken zu %s", incident.Address)
	}
	return b.String()
}
