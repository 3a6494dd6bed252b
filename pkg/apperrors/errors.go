package apperrors

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Базовые виды ошибок приложения. Каждая AppError ссылается на один из них через Kind,
// поэтому errors.Is(err, ErrNotFound) работает и для обернутых ошибок.
var (
	// ErrBadRequest некорректные или отсутствующие поля запроса
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized отсутствуют учетные данные или неверный логин
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden недействительный или просроченный токен
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound возвращается, когда запись не найдена (обобщенная ошибка)
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict нарушение уникальности (например, email уже зарегистрирован)
	ErrConflict = errors.New("conflict")
	// ErrInternal ошибка хранилища или непредвиденная ошибка
	ErrInternal = errors.New("internal error")

	// ErrCacheMiss возвращается, когда запись не найдена в кэше
	ErrCacheMiss = redis.Nil
	// ErrRecordNotFound возвращается, когда запись не найдена в базе данных
	ErrRecordNotFound = gorm.ErrRecordNotFound

	// IgnoredErrors содержит ошибки, которые не считаются сбоями для circuit breaker
	IgnoredErrors = []error{
		ErrNotFound,
		ErrCacheMiss,
		ErrRecordNotFound,
		ErrBadRequest,
		ErrConflict,
	}
)

// AppError ошибка с видом, сообщением для клиента и исходной причиной
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// Is позволяет сравнивать AppError с базовым видом ошибки
func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind error, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

// BadRequest создает ошибку валидации
func BadRequest(msg string) error { return newError(ErrBadRequest, msg) }

// Unauthorized создает ошибку отсутствующих или неверных учетных данных
func Unauthorized(msg string) error { return newError(ErrUnauthorized, msg) }

// Forbidden создает ошибку недействительного токена
func Forbidden(msg string) error { return newError(ErrForbidden, msg) }

// NotFound создает ошибку отсутствующей записи
func NotFound(msg string) error { return newError(ErrNotFound, msg) }

// Conflict создает ошибку нарушения уникальности
func Conflict(msg string) error { return newError(ErrConflict, msg) }

// Internal оборачивает ошибку хранилища; клиент получает исходное сообщение
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: ErrInternal, Message: err.Error(), Err: err}
}

// IsNotFound проверяет, является ли ошибка ошибкой "запись не найдена"
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCacheMiss) ||
		errors.Is(err, ErrRecordNotFound)
}

// HTTPStatus возвращает HTTP код для ошибки
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
