package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Balance — снимок баланса пользователя во внешней экономике.
type Balance struct {
	Cash  int
	Bank  int
	Total int
}

// BalanceService — внешняя экономика (UnbelievaBoat и т.п.).
type BalanceService interface {
	Balance(ctx context.Context, guildID, userID string) (Balance, error)
	AdjustCash(ctx context.Context, guildID, userID string, delta int, memo string) error
}

// Reconciler проводит оплату мульты против внешнего баланса.
// Вся последовательность "найти → проверить баланс → списать → отметить"
// сериализована по userID: иначе два одновременных Pay могли бы оба пройти
// findPayable до того, как первый отметит оплату, и списать деньги дважды.
type Reconciler struct {
	ledger *Ledger
	svc    BalanceService

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

func NewReconciler(l *Ledger, svc BalanceService) *Reconciler {
	return &Reconciler{
		ledger: l,
		svc:    svc,
		users:  make(map[string]*sync.Mutex),
	}
}

func (r *Reconciler) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.users[userID]
	if !ok {
		m = &sync.Mutex{}
		r.users[userID] = m
	}
	return m
}

// Pay оплачивает мульту fineID пользователя userID из его cash в guildID.
// Возвращает оплаченную запись и баланс на момент ДО списания.
//
// Исходы: ErrFineNotFound (нет такой неоплаченной — внешних вызовов не было),
// *BalanceUnavailableError, *InsufficientFundsError (списание не пробовали),
// *DebitFailedError (повторов не делаем), *PostPaymentPersistError.
func (r *Reconciler) Pay(ctx context.Context, guildID, userID string, fineID int) (*Fine, Balance, error) {
	lk := r.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	fine, err := r.ledger.findPayable(userID, fineID)
	if err != nil {
		return nil, Balance{}, err
	}

	bal, err := r.svc.Balance(ctx, guildID, userID)
	if err != nil {
		return nil, Balance{}, &BalanceUnavailableError{Err: err}
	}
	if bal.Cash < fine.Amount {
		return nil, bal, &InsufficientFundsError{Required: fine.Amount, Available: bal.Cash}
	}

	memo := fmt.Sprintf("Pago de multa #%d: %s", fine.ID, fine.Reason)
	if err := r.svc.AdjustCash(ctx, guildID, userID, -fine.Amount, memo); err != nil {
		return nil, bal, &DebitFailedError{Err: err}
	}

	if err := r.ledger.markPaid(userID, fineID); err != nil {
		// деньги уже ушли — это должно быть видно в логах как ЧП
		perr := &PostPaymentPersistError{UserID: userID, FineID: fineID, Err: err}
		log.Println("[pay] SEVERE:", perr)
		return nil, bal, perr
	}

	fine.Paid = true
	return fine, bal, nil
}
