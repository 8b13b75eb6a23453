package projector

import (
	"fmt"

	"github.com/senyabanana/recruitment-service/internal/models"
)

// Пакет projector выводит статус отклика из исходов переговоров и явных
// действий HR/Sales. Граф строго монотонный: назад двигаться нельзя,
// единственное исключение - финальный переход в REJECTED/WITHDRAWN.

// statusRank задает линейный порядок статусов отклика.
var statusRank = map[models.ApplicationStatus]int{
	models.PendingApplication:     0,
	models.ReviewedApplication:    1,
	models.ShortlistedApplication: 2,
	models.InterviewApplication:   3,
	models.InterviewedApplication: 4,
	models.OfferApplication:       5,
	models.HiredApplication:       6,
}

// Advance проецирует отклик вперед к статусу target.
// Если отклик уже дальше по графу, возвращается текущий статус и false:
// повторное согласование интервью не откатывает уже проведенное.
// Из поглощающего статуса проекция невозможна.
func Advance(current, target models.ApplicationStatus) (models.ApplicationStatus, bool, error) {
	if current.IsTerminal() {
		return current, false, models.NewConflictError(fmt.Sprintf("application is already %s and cannot change", current))
	}
	targetRank, ok := statusRank[target]
	if !ok {
		return current, false, models.NewValidationError(fmt.Sprintf("invalid projection target: %s", target))
	}
	currentRank, ok := statusRank[current]
	if !ok {
		return current, false, models.NewInvariantViolation(fmt.Sprintf("application has unknown status %s", current))
	}
	if targetRank <= currentRank {
		return current, false, nil
	}
	return target, true, nil
}

// Terminate переводит отклик в поглощающий статус REJECTED или WITHDRAWN.
// Из любого нефинального статуса, повторно - конфликт.
func Terminate(current, target models.ApplicationStatus) error {
	if !target.IsTerminal() {
		return models.NewValidationError(fmt.Sprintf("status %s is not terminal", target))
	}
	if current.IsTerminal() {
		return models.NewConflictError(fmt.Sprintf("application is already %s and cannot change", current))
	}
	if _, ok := statusRank[current]; !ok {
		return models.NewInvariantViolation(fmt.Sprintf("application has unknown status %s", current))
	}
	return nil
}

// StatusForOutcome возвращает целевой статус проекции для успешно
// завершившихся переговоров: интервью согласовано или оффер согласован.
func StatusForOutcome(subject models.SubjectType) models.ApplicationStatus {
	if subject == models.SubjectOffer {
		return models.OfferApplication
	}
	return models.InterviewApplication
}
