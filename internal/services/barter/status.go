package barter

// Статусы запроса на обмен
const (
	StatusPending         = "pending"
	StatusAccepted        = "accepted"
	StatusAwaitingPayment = "awaiting_payment"
	StatusCompleted       = "completed"
)

// Допустимые переходы между статусами. Отклонение и отзыв не являются
// статусами: запрос при этом удаляется из массива целиком, и то и другое
// возможно только из pending.
var transitions = map[string]map[string]struct{}{
	StatusPending: {StatusAccepted: {}},
	StatusAccepted: {
		StatusAwaitingPayment: {},
		StatusCompleted:       {}, // обмен без доплаты
	},
	StatusAwaitingPayment: {StatusCompleted: {}},
}

// CanTransition сообщает, разрешён ли переход из одного статуса в другой
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal сообщает, является ли статус конечным
func IsTerminal(status string) bool {
	return status == StatusCompleted
}
