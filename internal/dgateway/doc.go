// Package dgateway реализует WebSocket-клиент шлюза Discord (API v10)
// плюс тот срез REST, который нужен боту. Клиент подключается к
// wss://gateway.discord.gg, проходит hello → identify, держит heartbeat,
// автоматически реконнектится (с resume сессии, где возможно) и раздаёт
// события колбэками:
//
//   - OnConnecting, OnConnected, OnReady, OnInteraction,
//     OnReactionAdd/OnReactionRemove, OnDisconnected, OnError.
//
// REST-методы: RegisterCommands, RespondInteraction, OriginalResponse,
// CreateMessage, CreateReaction.
//
// Безопасность и устойчивость:
//   - Запись в сокет сериализована (мьютекс + write-deadline).
//   - Пульс по интервалу из hello, два пропущенных ACK — соединение
//     считается зомби и закрывается; readLoop реконнектит с
//     экспоненциальным backoff.
//   - Обработчики interaction/реакций запускаются в своих горутинах,
//     чтобы сетевые вызовы из них не тормозили чтение шлюза.
//
// Пример:
//
//	dg := dgateway.New(cfg, dgateway.IntentGuilds|dgateway.IntentGuildMessageReactions)
//	dg.OnReady = func(u dgateway.User) { fmt.Println("ready as", u.Username) }
//	dg.OnInteraction = func(i *dgateway.Interaction) { /* ... */ }
//	if err := dg.Connect(ctx); err != nil { log.Fatal(err) }
//	defer dg.Disconnect()
package dgateway
