// Package web — keep-alive HTTP сервер: хостинги вроде Replit усыпляют
// процесс без входящего трафика, поэтому бот отвечает на GET /.
// Заодно отдаёт /healthz (жив ли шлюз) и /metrics (prometheus).
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv   *http.Server
	ready func() bool
}

func New(addr string, ready func() bool) *Server {
	s := &Server{ready: ready}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "Bot activo y funcionando!")
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if s.ready != nil && !s.ready() {
			http.Error(w, "gateway disconnected", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("web:", err)
		}
	}()
	log.Println("web: listening on", s.srv.Addr)
	return nil
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
