// Package ledger — реестр мульт (штрафов) и его оплата.
//
// Состоит из трёх частей:
//   - Ledger — in-memory карта userID → список Fine плюс сквозной счётчик id.
//     Операции: Issue, Revoke, ListForUser. Каждая мутация синхронно
//     сохраняется через Store.
//   - Store — весь реестр и счётчик одним JSON-файлом
//     {"fines": {...}, "nextId": N}. Запись через temp-файл + rename,
//     чтобы упавший процесс не портил предыдущую версию. Битый файл при
//     загрузке — ErrCorruptState, Ledger.Load логирует и стартует пустым.
//   - Reconciler — оплата мульты против внешнего баланса (BalanceService):
//     найти неоплаченную → проверить cash → списать ровно сумму с memo →
//     отметить оплаченной. Последовательность сериализована по userID,
//     повторная оплата той же мульты отваливается на findPayable.
//
// Ошибки см. errors.go: сентинели для реестра и типизированные ошибки
// оплаты (InsufficientFundsError с недостачей, BalanceUnavailableError,
// DebitFailedError, PostPaymentPersistError).
//
// Пример:
//
//	l := ledger.New(ledger.NewStore("data/multas.json"))
//	if err := l.Load(); err != nil { log.Fatal(err) }
//
//	f, _ := l.Issue("307412…", 50, "exceso de velocidad")
//	r := ledger.NewReconciler(l, svc)
//	paid, bal, err := r.Pay(ctx, guildID, "307412…", f.ID)
package ledger
