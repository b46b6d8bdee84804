package main

import (
	"context"
	"net/http"

	"github.com/collabtext-lab/backend/internal/domain"
	"github.com/collabtext-lab/backend/internal/domain/relay"
	"github.com/collabtext-lab/backend/pkg/kafka"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startRelay(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()

	hub := relay.NewHub(relay.NewRegistry())
	s.relayDomain = domain.NewRelayDomain(hub, *s.configs, s.logger)

	// Every relay instance must see every notification, so each joins its
	// own consumer group.
	bridge := relay.NewBridge(hub)
	s.subscriber = kafka.NewSubscriber(
		"relay-"+uuid.NewString(),
		[]string{s.configs.Kafka.Addr},
		[]string{relay.PermissionRevokedQueue, relay.DocumentDeletedQueue},
		bridge.Subscribe,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/relay", s.relayDomain.ServeRelay)

	s.server = &http.Server{
		Addr:    s.configs.RelayServer.Address(),
		Handler: mux,
	}

	ctx := context.Background()
	ctx = s.contextWithValues(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.subscriber.Subscribe(gctx)
		<-gctx.Done()
		return s.subscriber.Stop(gctx)
	})

	g.Go(func() error {
		s.logger.Infof("Starting relay server on %s", s.configs.RelayServer.Address())
		return s.server.ListenAndServe()
	})

	return g.Wait()
}
