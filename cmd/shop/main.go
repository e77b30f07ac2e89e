package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/Rojan6190/shop/pkg/db"
	"github.com/Rojan6190/shop/pkg/logging"
	authmw "github.com/Rojan6190/shop/pkg/middleware/auth"
	"github.com/Rojan6190/shop/pkg/middleware/csrf"
	loggingmw "github.com/Rojan6190/shop/pkg/middleware/logging"

	"github.com/Rojan6190/shop/internal/config"
	"github.com/Rojan6190/shop/internal/events"
	"github.com/Rojan6190/shop/internal/httpserver"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/internal/search"
	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/storage"
)

func main() {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(db)

	var publisher service.Publisher
	var producer *events.Producer
	if cfg.KafkaEnabled() {
		producer, err = events.NewProducer(cfg.KafkaBrokers, logger.With("component", "kafka"))
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		topicsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := events.EnsureTopics(topicsCtx, cfg.KafkaBrokers[0],
			service.TopicCart, service.TopicOrder, service.TopicOffer, service.TopicProduct); err != nil {
			logger.Warn("kafka_topics_not_ensured", "error", err)
		}
		cancel()
		publisher = producer
	} else {
		logger.Info("kafka_disabled")
	}

	var indexer service.Indexer
	if cfg.SearchEnabled() {
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := search.NewClient(esCtx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		cancel()
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			indexer = client
		}
	} else {
		logger.Info("elasticsearch_disabled")
	}

	catalogSvc := &service.CatalogService{Repo: r, Publisher: publisher, Indexer: indexer}
	if cfg.SeedCategories {
		if err := catalogSvc.SeedCategories(ctx); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	files := storage.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))
	e.Use(csrf.Middleware(csrf.Config{SessionCookie: authmw.AccessCookie, Secure: cfg.CookieSecure}))

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Publisher: publisher}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.CheckoutService{Repo: r, Publisher: publisher}},
		OfferHandler:   &httpserver.OfferHTTP{Svc: &service.OfferService{Repo: r, Publisher: publisher, Indexer: indexer}},
		ImageHandler:   &httpserver.ImageHTTP{Svc: &service.ImageService{Repo: r, Files: files}},
		JWTSecret:      cfg.JWTAccessSecret,
		Ready:          r.Ping,
		StaticDir:      cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("stopped")
}

// bodyLimit leaves headroom above the largest allowed image for multipart framing.
func bodyLimit(maxUpload int64) string {
	const overhead = 1 << 20
	mb := (maxUpload + overhead + (1<<20 - 1)) >> 20
	return strconv.FormatInt(mb, 10) + "M"
}
