package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sellerUsecases "github.com/pinegate/pinegate/internal/application/seller/usecases"
	"github.com/pinegate/pinegate/internal/infrastructure/migration"
	"github.com/pinegate/pinegate/internal/infrastructure/scheduler"
	"github.com/pinegate/pinegate/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/pinegate/pinegate/internal/interfaces/http"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}

	rt, err := bootstrap.Load(env, "", true)
	if err != nil {
		fmt.Printf("failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	log := rt.Log
	log.Infow("starting session probe worker", "environment", rt.Env)

	if rt.Config.Database.IsSQLite() {
		manager := migration.NewManager(rt.Env, true, log)
		if err := manager.Migrate(rt.DB, migration.AutoMigrateModels()...); err != nil {
			log.Fatalw("failed to migrate sqlite database", "error", err)
		}
	}

	container, err := httpRouter.NewContainer(rt.DB, rt.Config, log)
	if err != nil {
		log.Fatalw("failed to build container", "error", err)
	}

	schedulerManager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		log.Fatalw("failed to create scheduler", "error", err)
	}

	probeJob := sellerUsecases.NewSessionProbeJob(container.ProbeSessions())
	if err := schedulerManager.RegisterSessionProbeJob(probeJob, rt.Config.Prober.Interval(), rt.Config.Prober.RunTimeout()); err != nil {
		log.Fatalw("failed to register session probe job", "error", err)
	}

	schedulerManager.Start()
	log.Infow("session probe worker started",
		"interval", rt.Config.Prober.Interval().String(),
		"delay", rt.Config.Prober.Delay().String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig.String())

	if err := schedulerManager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	container.Shutdown(ctx)

	log.Infow("session probe worker stopped")
}
