package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/leathershop/internal/store"
)

const (
	serviceName   = "leathershop.Storefront"
	probeInterval = 10 * time.Second
	probeTimeout  = 2 * time.Second
)

func newHealthServer() (*grpc.Server, *health.Server) {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return gs, hs
}

// pingStore reads the settings slot, which every backend can serve.
func pingStore(ctx context.Context, st *store.Store) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := st.Settings(ctx)
	return err
}

// probeStore keeps the gRPC health status in line with the store backend.
func probeStore(ctx context.Context, st *store.Store, hs *health.Server) {
	t := time.NewTicker(probeInterval)
	defer t.Stop()
	last := healthpb.HealthCheckResponse_SERVING
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		status := healthpb.HealthCheckResponse_SERVING
		if err := pingStore(ctx, st); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			log.Warn().Err(err).Msg("store probe failed")
		}
		if status != last {
			hs.SetServingStatus("", status)
			hs.SetServingStatus(serviceName, status)
			last = status
		}
	}
}
