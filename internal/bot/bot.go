package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/EspanolesRP/multasbot/internal/dgateway"
	"github.com/EspanolesRP/multasbot/internal/ledger"
	"github.com/EspanolesRP/multasbot/internal/unbapi"
	"github.com/EspanolesRP/multasbot/internal/web"
)

type MultasBot struct {
	dg  *dgateway.Client
	unb *unbapi.Client

	ledger *ledger.Ledger
	pay    *ledger.Reconciler

	web *web.Server

	// активные опросы по id сообщения
	polls map[string]*poll
	pmu   sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// чтобы не дёргать регистрацию команд при серии быстрых реконнектов
	regMu   sync.Mutex
	lastReg time.Time
}

func New() *MultasBot {
	return &MultasBot{
		polls: make(map[string]*poll),
	}
}

func (b *MultasBot) SetGateway(cfg dgateway.GatewayConfig) {
	intents := dgateway.IntentGuilds | dgateway.IntentGuildMessages |
		dgateway.IntentMessageContent | dgateway.IntentGuildMessageReactions
	b.dg = dgateway.New(cfg, intents)

	b.dg.OnConnecting = func() { fmt.Println("connecting...") }

	b.dg.OnConnected = func() { fmt.Println("connected") }

	// КЛЮЧЕВОЕ: каждая готовая сессия (первая или после реконнекта) —
	// перерегистрируем слэш-команды
	b.dg.OnReady = func(u dgateway.User) {
		log.Printf("ready as %s", u.Username)
		go b.registerCommands()
	}

	b.dg.OnError = func(err error) { fmt.Println("err:", err) }

	b.dg.OnInteraction = func(i *dgateway.Interaction) { b.handleInteraction(i) }
	b.dg.OnReactionAdd = func(e *dgateway.ReactionEvent) { b.handleReaction(e, true) }
	b.dg.OnReactionRemove = func(e *dgateway.ReactionEvent) { b.handleReaction(e, false) }
}

func (b *MultasBot) SetEconomy(cfg unbapi.UNBConf) {
	b.unb = unbapi.NewClientFromConf(cfg)
}

// UseLedger загружает реестр мульт из файла path (битый файл — старт
// с пустого, см. ledger.Load) и держит его в памяти до остановки.
func (b *MultasBot) UseLedger(path string) error {
	l := ledger.New(ledger.NewStore(path))
	if err := l.Load(); err != nil {
		return err
	}
	b.ledger = l
	return nil
}

// SetKeepAlive включает keep-alive HTTP сервер на addr.
func (b *MultasBot) SetKeepAlive(addr string) {
	b.web = web.New(addr, func() bool {
		return b.dg != nil && b.dg.IsConnected()
	})
}

func (b *MultasBot) Start() error {
	if b == nil {
		return errors.New("бот не инициализирован")
	}
	if b.dg == nil {
		return errors.New("модуль gateway не инициализирован")
	}
	if b.ledger == nil {
		return errors.New("реестр мульт не загружен (UseLedger)")
	}
	if b.stopCh != nil {
		return errors.New("уже запущен")
	}
	if b.pay == nil && b.unb != nil {
		b.pay = ledger.NewReconciler(b.ledger, economy{c: b.unb})
	}
	b.stopCh = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	if err := b.dg.Connect(ctx); err != nil {
		cancel()
		return err
	}

	if b.web != nil {
		if err := b.web.Start(); err != nil {
			log.Println("web:", err)
		}
	}

	// сторож для остановки
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		<-b.stopCh
		if b.web != nil {
			b.web.Stop()
		}
		cancel()
		b.dg.Disconnect()
	}()

	return nil
}

func (b *MultasBot) Stop() {
	b.mu.Lock()
	ch := b.stopCh
	b.stopCh = nil
	b.mu.Unlock()

	if ch != nil {
		close(ch)   // безопасно: повторный Stop() ничего не делает
		b.wg.Wait() // дождёмся остановки фоновой горутины
	}
}

// регистрация команд при (ре)подключении
func (b *MultasBot) registerCommands() {
	// антидребезг: если READY прилетело несколько раз подряд — коллапсируем
	b.regMu.Lock()
	if time.Since(b.lastReg) < 2*time.Second {
		b.regMu.Unlock()
		return
	}
	b.lastReg = time.Now()
	b.regMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.dg.RegisterCommands(ctx, slashCommands()); err != nil {
		log.Println("[cmd] register:", err)
		return
	}
	log.Println("[cmd] slash commands registered")
}
