package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные функции (используются для оборачивания ошибок из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные переменные (для частых, статичных ошибок)
// =========================================================================

// --- Subscriptions ---

// ErrSubscriptionNotFound - подписка не найдена в рамках организации.
var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"subscription",
	"Subscription not found",
	http.StatusNotFound,
)

// ErrSubscriberNotFound - абонент не найден в рамках организации.
var ErrSubscriberNotFound = New(
	CodeNotFound,
	"subscriber",
	"Subscriber not found",
	http.StatusNotFound,
)

// ErrPlanNotFound - план не найден в рамках организации.
var ErrPlanNotFound = New(
	CodeNotFound,
	"plan",
	"Plan not found",
	http.StatusNotFound,
)

// ErrRenewalConflict - гонка при присвоении renewal_count.
// Путь создания повторяет операцию один раз; если конфликт повторился,
// ошибка уходит клиенту как transient failure.
var ErrRenewalConflict = New(
	CodeConflict,
	"subscription",
	"Concurrent renewal detected, please retry",
	http.StatusConflict,
)

// ErrSubscriptionTerminal - подписка в терминальном статусе (expired/cancelled).
var ErrSubscriptionTerminal = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription status is terminal and cannot be changed",
	http.StatusBadRequest,
)

// --- Groups ---

// ErrGroupNotFound - группа не найдена в рамках организации.
var ErrGroupNotFound = New(
	CodeNotFound,
	"group",
	"Group not found",
	http.StatusNotFound,
)

// ErrGroupMemberExists - абонент уже состоит в группе.
var ErrGroupMemberExists = New(
	CodeAlreadyExists,
	"group",
	"Subscriber is already in the group",
	http.StatusConflict,
)

// --- Invoices & Payments ---

// ErrInvoiceNotFound - счет не найден.
var ErrInvoiceNotFound = New(
	CodeNotFound,
	"invoice",
	"Invoice not found",
	http.StatusNotFound,
)

// ErrPaymentNotFound - платеж не найден.
var ErrPaymentNotFound = New(
	CodeNotFound,
	"payment",
	"Payment not found",
	http.StatusNotFound,
)

// ErrAlreadyPaid - подписка уже оплачена.
var ErrAlreadyPaid = New(
	CodeInvalidOperation,
	"payment",
	"Subscription is already marked as paid",
	http.StatusBadRequest,
)

// --- Auth ---

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
