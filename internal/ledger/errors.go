package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrEmptyReason   = errors.New("reason must not be empty")
	ErrUserNotFound  = errors.New("user has no fines")
	ErrFineNotFound  = errors.New("fine not found")
	ErrCorruptState  = errors.New("corrupt ledger file")
)

// InsufficientFundsError — на балансе меньше, чем сумма мульты.
type InsufficientFundsError struct {
	Required  int
	Available int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Required, e.Available)
}

func (e *InsufficientFundsError) Shortfall() int { return e.Required - e.Available }

// BalanceUnavailableError — внешний сервис баланса недоступен
// (сеть, таймаут, не-2xx). Реестр не тронут, списания не было.
type BalanceUnavailableError struct {
	Err error
}

func (e *BalanceUnavailableError) Error() string {
	return "balance service unavailable: " + e.Err.Error()
}

func (e *BalanceUnavailableError) Unwrap() error { return e.Err }

// DebitFailedError — само списание не прошло. Автоматически не повторяем:
// неизвестно, применилось ли оно на той стороне.
type DebitFailedError struct {
	Err error
}

func (e *DebitFailedError) Error() string { return "debit failed: " + e.Err.Error() }

func (e *DebitFailedError) Unwrap() error { return e.Err }

// PostPaymentPersistError — деньги уже списаны, а локальное состояние
// не записалось. Единственная настоящая рассинхронизация внешнего и
// локального состояния; чинится руками по логам.
type PostPaymentPersistError struct {
	UserID string
	FineID int
	Err    error
}

func (e *PostPaymentPersistError) Error() string {
	return fmt.Sprintf("fine #%d of user %s: debit applied but state not persisted: %v",
		e.FineID, e.UserID, e.Err)
}

func (e *PostPaymentPersistError) Unwrap() error { return e.Err }
