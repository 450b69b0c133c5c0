// Package bot — “склейка” вокруг dgateway, unbapi и ledger, реализующая
// бота сервера Españoles RP. Бот:
//   - регистрирует слэш-команды при каждом READY (первом или после
//     реконнекта) и разбирает interaction'ы;
//   - ведёт реестр мульт: /poner_multa, /quitar_multa, /ver_multas
//     (выписка/снятие — только с правом ManageMessages);
//   - проводит оплату /pagar_multa через Reconciler: проверка баланса
//     в UnbelievaBoat, списание cash, отметка об оплате;
//   - проводит /votacion — голосование реакциями ✅ с порогом, по
//     достижении которого публикует анонс открытия сервера;
//   - держит keep-alive HTTP сервер (/, /healthz, /metrics).
//
// Жизненный цикл:
//   - Создать бота через New().
//   - Передать клиентов: SetGateway(...), SetEconomy(...),
//     (опционально) SetKeepAlive(addr).
//   - UseLedger("data/multas.json") — поднимет реестр из файла.
//   - Запустить Start() и остановить Stop().
//
// Пример:
//
//	b := bot.New()
//	b.SetGateway(dgcfg)
//	b.SetEconomy(unbcfg)
//	if err := b.UseLedger("data/multas.json"); err != nil { log.Fatal(err) }
//	b.SetKeepAlive(":3000")
//
//	if err := b.Start(); err != nil { log.Fatal(err) }
//	defer b.Stop()
package bot
