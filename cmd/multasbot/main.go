package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EspanolesRP/multasbot/internal/bot"
	"github.com/EspanolesRP/multasbot/internal/dgateway"
	"github.com/EspanolesRP/multasbot/internal/unbapi"
)

func mustRead[T any](path string, out *T) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		log.Fatal(err)
	}
}

type botConf struct {
	LedgerPath    string `json:"ledger_path"`
	KeepAliveAddr string `json:"keepalive_addr"`
}

func main() {
	var dgcfg dgateway.GatewayConfig
	var unbcfg unbapi.UNBConf
	var cfg botConf

	mustRead("conf/dgconfig.json", &dgcfg)
	mustRead("conf/unbconfig.json", &unbcfg)
	mustRead("conf/botconfig.json", &cfg)

	if cfg.LedgerPath == "" {
		cfg.LedgerPath = "data/multas.json"
	}

	b := bot.New()
	b.SetGateway(dgcfg)
	b.SetEconomy(unbcfg)

	// поднимем реестр мульт и применим его
	if err := b.UseLedger(cfg.LedgerPath); err != nil {
		log.Fatal(err)
	}

	// опционально: keep-alive для хостинга
	if cfg.KeepAliveAddr != "" {
		b.SetKeepAlive(cfg.KeepAliveAddr)
	}

	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
	defer b.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("running… press Ctrl+C to stop")

	<-ctx.Done()
}
