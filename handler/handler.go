package handler

import (
	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/service"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	users   *ttlcache.Cache[int64, *data.User]
	service service.Service
}

// New creates a new instance of Handler. users caches the accounts resolved
// from bearer tokens.
func New(cfg config.Config, logger *jsonlog.Logger, users *ttlcache.Cache[int64, *data.User], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		users:   users,
		service: service,
	}
}
