package models

import "net/http"

type ErrorKind string // Категория ошибки

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindAuthorization ErrorKind = "authorization"
	KindConflict      ErrorKind = "conflict"
	KindInvariant     ErrorKind = "invariant_violation"
)

// ErrorResponse описывает ошибку с кодом, категорией и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"-"`
	Message    string    `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewValidationError - некорректный или неполный запрос, состояние не изменилось.
func NewValidationError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

// NewNotFoundError - отклик или предложение не найдены.
func NewNotFoundError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: message}
}

// NewAuthorizationError - роль или идентификатор актора не подходят для операции.
func NewAuthorizationError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusForbidden, Kind: KindAuthorization, Message: message}
}

// NewConflictError - операция против предложения или отклика не в требуемом состоянии.
func NewConflictError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusConflict, Kind: KindConflict, Message: message}
}

// NewInvariantViolation - нарушение инварианта данных, наружу уходит без подробностей.
func NewInvariantViolation(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusInternalServerError, Kind: KindInvariant, Message: message}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
