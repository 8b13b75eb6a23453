package notifier

import (
	"time"

	"github.com/senyabanana/recruitment-service/internal/models"

	"go.uber.org/zap"
)

// Event - уведомление о событии переговоров или смене статуса отклика.
// Доставку выполняет внешний нотификатор, сервис только ставит событие в очередь.
type Event struct {
	Type          string             `json:"type"`
	ApplicationID string             `json:"applicationId"`
	ProposalID    string             `json:"proposalId,omitempty"`
	SubjectType   models.SubjectType `json:"subjectType,omitempty"`
	OccurredAt    time.Time          `json:"occurredAt"`
}

// Notifier принимает события fire-and-forget: недоступность получателя
// не должна блокировать переход состояния.
type Notifier interface {
	Enqueue(event Event)
}

// QueueNotifier - реализация Notifier на буферизованном канале.
// Отдельная горутина вычитывает очередь; при переполнении событие
// отбрасывается с предупреждением в лог.
type QueueNotifier struct {
	events chan Event
	logger *zap.SugaredLogger
}

// NewQueueNotifier создает новый экземпляр QueueNotifier и запускает вычитку очереди.
func NewQueueNotifier(logger *zap.SugaredLogger, bufferSize int) *QueueNotifier {
	n := &QueueNotifier{
		events: make(chan Event, bufferSize),
		logger: logger,
	}
	go n.drain()
	return n
}

// Enqueue ставит событие в очередь, не блокируясь.
func (n *QueueNotifier) Enqueue(event Event) {
	select {
	case n.events <- event:
	default:
		n.logger.Warnw("notification queue is full, dropping event",
			"type", event.Type, "applicationId", event.ApplicationID)
	}
}

// Close останавливает вычитку очереди.
func (n *QueueNotifier) Close() {
	close(n.events)
}

func (n *QueueNotifier) drain() {
	for event := range n.events {
		// Здесь внешний нотификатор забирает событие; сервис его только логирует.
		n.logger.Infow("notification dispatched",
			"type", event.Type,
			"applicationId", event.ApplicationID,
			"proposalId", event.ProposalID,
			"occurredAt", event.OccurredAt)
	}
}
