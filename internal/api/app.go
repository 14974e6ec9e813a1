package api

import (
	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/config"
	"github.com/nextgen-hub/studenthub/internal/notify"
	"github.com/nextgen-hub/studenthub/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Store() storage.Store
	Hub() *notify.Hub
	Config() *config.Config
}

// Server is the App used by cmd/server and the handler tests.
type Server struct {
	logger internal.Logger
	store  storage.Store
	hub    *notify.Hub
	cfg    *config.Config
}

func NewServer(cfg *config.Config, logger internal.Logger, store storage.Store, hub *notify.Hub) *Server {
	return &Server{logger: logger, store: store, hub: hub, cfg: cfg}
}

func (s *Server) Logger() internal.Logger { return s.logger }
func (s *Server) Store() storage.Store     { return s.store }
func (s *Server) Hub() *notify.Hub         { return s.hub }
func (s *Server) Config() *config.Config   { return s.cfg }
