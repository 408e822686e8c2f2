package services

import "errors"

// Common service errors
var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrUnauthorized      = errors.New("доступ запрещён")
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrNotOwner          = errors.New("объект принадлежит другому пользователю")
)

// Lease request errors
var (
	ErrDuplicatePendingRequest = errors.New("по этой технике уже есть заявка на рассмотрении")
	ErrEquipmentUnavailable    = errors.New("техника недоступна для лизинга")
	ErrCompanyRequired         = errors.New("к учётной записи не привязана компания")
	ErrAlreadyContracted       = errors.New("по заявке уже оформлен договор")
	ErrRequestClosed           = errors.New("заявка закрыта")
	ErrEmptyMessage            = errors.New("пустое сообщение")
)

// Contract errors
var (
	ErrRequestNotConfirmed   = errors.New("заявка не подтверждена")
	ErrContractAlreadyExists = errors.New("договор по этой заявке уже существует")
	ErrAlreadySigned         = errors.New("договор уже подписан")
	ErrBelowMinimumRate      = errors.New("ежемесячный платёж ниже минимальной ставки")
	ErrInvalidTerm           = errors.New("недопустимый срок лизинга")
	ErrUnpaidInstallments    = errors.New("по договору остались неоплаченные платежи")
)

// Payment errors
var (
	ErrInvalidAmount = errors.New("недопустимая сумма платежа")
	ErrAlreadyPaid   = errors.New("платёж уже зачтён")
)

// Maintenance errors
var (
	ErrInvalidUrgency         = errors.New("недопустимый уровень срочности")
	ErrInvalidMaintenanceType = errors.New("недопустимый тип обслуживания")
	ErrDescriptionRequired    = errors.New("не заполнено описание проблемы")
)
