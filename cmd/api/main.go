package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/auction"
	"github.com/yash151294/StockENT-sub002/internal/cart"
	"github.com/yash151294/StockENT-sub002/internal/catalog"
	"github.com/yash151294/StockENT-sub002/internal/config"
	"github.com/yash151294/StockENT-sub002/internal/httpx"
	kafkax "github.com/yash151294/StockENT-sub002/internal/kafka"
	"github.com/yash151294/StockENT-sub002/internal/negotiation"
	"github.com/yash151294/StockENT-sub002/internal/notifier"
	"github.com/yash151294/StockENT-sub002/internal/postgres"
	"github.com/yash151294/StockENT-sub002/internal/redisx"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.MigrationsURL, cfg.PostgresDSN); err != nil {
		log.WithField("err", err).Fatal("db migrate")
	}

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

	auctions := auction.NewService(&auction.Repo{DB: db, Settlements: settlements}, products, settler, prod, cfg.ServiceName)
	negotiations := negotiation.NewService(&negotiation.Repo{DB: db, Settlements: settlements}, products, settler, prod, cfg.ServiceName)

	router := httpx.NewRouter()
	(&httpx.AuctionsHandler{Service: auctions, Redis: rdb}).Register(router)
	(&httpx.NegotiationsHandler{Service: negotiations}).Register(router)
	(&httpx.SettlementsHandler{Settlements: settlements}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("err", err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prod.WaitClosed()
	cancel()
}
