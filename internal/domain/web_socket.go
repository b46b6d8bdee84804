package domain

import (
	"net/http"

	"github.com/collabtext-lab/backend/config"
	"github.com/collabtext-lab/backend/internal/domain/relay"
	"github.com/collabtext-lab/backend/pkg/logger"
	"github.com/collabtext-lab/backend/pkg/ws"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/gorilla/websocket"
)

type RelayDomain interface {
	ServeRelay(w http.ResponseWriter, r *http.Request)
}

type relayDomain struct {
	hub    *relay.Hub
	cfg    config.Configs
	logger logger.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewRelayDomain(hub *relay.Hub, cfg config.Configs, logger logger.Logger) RelayDomain {
	return &relayDomain{hub: hub, cfg: cfg, logger: logger}
}

func (d *relayDomain) ServeRelay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Unable to connect server", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	ctx = xcontext.WithConfigs(ctx, d.cfg)
	ctx = xcontext.WithLogger(ctx, d.logger)

	client := ws.NewClient(conn)
	defer client.Close()

	bufferSize := d.cfg.Relay.SessionBufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}

	session := d.hub.NewSession(bufferSize)
	session.Serve(ctx, client)
}
