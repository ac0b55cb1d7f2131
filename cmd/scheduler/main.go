package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/auction"
	"github.com/yash151294/StockENT-sub002/internal/cart"
	"github.com/yash151294/StockENT-sub002/internal/catalog"
	"github.com/yash151294/StockENT-sub002/internal/config"
	kafkax "github.com/yash151294/StockENT-sub002/internal/kafka"
	"github.com/yash151294/StockENT-sub002/internal/negotiation"
	"github.com/yash151294/StockENT-sub002/internal/notifier"
	"github.com/yash151294/StockENT-sub002/internal/postgres"
	"github.com/yash151294/StockENT-sub002/internal/redisx"
	"github.com/yash151294/StockENT-sub002/internal/scheduler"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithField("err", err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	settlements := &settlement.Repo{DB: db}
	settler := settlement.NewCoordinator(settlements, &cart.Repo{DB: db}, notifier.LogNotifier{})
	products := &catalog.Repo{DB: db}

	runner := &scheduler.Runner{
		Lock:         redisx.NewLock(rdb, redisx.KeySchedulerLeader, cfg.LeaderLockTTL),
		Interval:     cfg.SweepInterval,
		Auctions:     auction.NewService(&auction.Repo{DB: db, Settlements: settlements}, products, settler, prod, cfg.ServiceName+"-scheduler"),
		Negotiations: negotiation.NewService(&negotiation.Repo{DB: db, Settlements: settlements}, products, settler, prod, cfg.ServiceName+"-scheduler"),
		Settlements:  settler,
		LastRun:      &scheduler.RedisLastRun{Client: rdb},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.WithField("interval", cfg.SweepInterval.String()).Info("scheduler started")
		if err := runner.Run(ctx); err != nil {
			log.WithField("err", err).Error("scheduler exit")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down scheduler...")
	cancel()
	// an in-flight sweep still publishes; the inbox must outlive the runner
	<-done
	prod.Close()
	prod.WaitClosed()
}
