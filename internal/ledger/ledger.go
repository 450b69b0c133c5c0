package ledger

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

// Fine — одна мульта. Поля сериализуются в файл как есть.
type Fine struct {
	ID        int       `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	Paid      bool      `json:"paid"`
}

// Ledger — владелец всех мульт и счётчика id. Единственный источник истины
// на время жизни процесса; каждая мутация синхронно пишется через Store.
// Наружу отдаются только копии записей.
type Ledger struct {
	mu     sync.Mutex
	fines  map[string][]*Fine
	nextID int
	store  *Store
}

func New(store *Store) *Ledger {
	return &Ledger{
		fines:  make(map[string][]*Fine),
		nextID: 1,
		store:  store,
	}
}

// Load поднимает реестр из файла. Битый файл — не повод падать:
// логируем и продолжаем с пустым реестром.
func (l *Ledger) Load() error {
	fines, nextID, err := l.store.Load()
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			log.Println("[ledger]", err, "- starting empty")
			return nil
		}
		return err
	}
	l.mu.Lock()
	l.fines = fines
	l.nextID = nextID
	l.mu.Unlock()
	return nil
}

// Issue выписывает мульту userID и присваивает ей следующий id.
// Счётчик сквозной по всем пользователям и никогда не переиспользуется.
func (l *Ledger) Issue(userID string, amount int, reason string) (*Fine, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f := &Fine{
		ID:        l.nextID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	l.nextID++
	l.fines[userID] = append(l.fines[userID], f)
	l.saveLocked()

	cp := *f
	return &cp, nil
}

// Revoke удаляет мульту безвозвратно, оплаченную или нет.
// Возвращает удалённую запись для показа.
func (l *Ledger) Revoke(userID string, fineID int) (*Fine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, ok := l.fines[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	for i, f := range seq {
		if f.ID != fineID {
			continue
		}
		l.fines[userID] = append(seq[:i], seq[i+1:]...)
		if len(l.fines[userID]) == 0 {
			delete(l.fines, userID)
		}
		l.saveLocked()
		cp := *f
		return &cp, nil
	}
	return nil, ErrFineNotFound
}

// ListForUser возвращает мульты пользователя в порядке выписки.
// Нет мульт — пустой срез, это не ошибка.
func (l *Ledger) ListForUser(userID string) []Fine {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.fines[userID]
	out := make([]Fine, 0, len(seq))
	for _, f := range seq {
		out = append(out, *f)
	}
	return out
}

// findPayable ищет НЕоплаченную мульту. Повторная оплата уже оплаченной
// должна падать здесь, а не списывать деньги второй раз.
func (l *Ledger) findPayable(userID string, fineID int) (*Fine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.fines[userID] {
		if f.ID == fineID && !f.Paid {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrFineNotFound
}

// markPaid переводит мульту в оплаченные. Зовётся только после успешного
// внешнего списания; ошибка записи отдаётся наверх как есть, Reconciler
// превращает её в PostPaymentPersistError.
func (l *Ledger) markPaid(userID string, fineID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.fines[userID] {
		if f.ID == fineID {
			f.Paid = true
			return l.store.Save(l.fines, l.nextID)
		}
	}
	return ErrFineNotFound
}

// saveLocked — синхронная запись после мутации; вызывать под l.mu.
// Ошибка записи при issue/revoke не откатывает память — persistence
// здесь best-effort, как и у всего файла.
func (l *Ledger) saveLocked() {
	if err := l.store.Save(l.fines, l.nextID); err != nil {
		log.Println("[ledger] save:", err)
	}
}
