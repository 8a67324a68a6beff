package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shaharsat/library-graphql/cache"
	"github.com/shaharsat/library-graphql/config"
	"github.com/shaharsat/library-graphql/db"
	"github.com/shaharsat/library-graphql/graph"
	"github.com/shaharsat/library-graphql/pubsub"
	"github.com/shaharsat/library-graphql/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up the server: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.LogPretty, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up the logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting server...")

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Error during server start", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	source, err := graph.LoadSchemaSource(cfg.SchemaPath)
	if err != nil {
		return err
	}
	logger.Info("Schema loaded successfully.")

	ids, err := db.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		return err
	}

	var library db.LibraryManager = db.NewMemoryLibrary(ids, db.DefaultBooks(), db.DefaultAuthors())
	if cfg.ElasticURL != "" {
		library = setupSearchMirror(ctx, cfg, library, logger)
	}

	broker := pubsub.NewBroker()

	schema, err := graph.NewSchema(source, graph.NewResolver(library, broker, logger))
	if err != nil {
		return err
	}
	logger.Info("Schema and resolvers set up successfully.")

	sockets := service.NewSocketServer(schema, cfg.WSInitTimeout, logger)
	handlers := &service.Handlers{
		Schema:   schema,
		Library:  library,
		Activity: cache.NewActivityLog(setupRequestCacher(cfg, logger)),
		Sockets:  sockets,
		Logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	server := service.NewServer(cfg.Addr(), service.SetupRoutes(handlers, logger), sockets, logger)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.ListenAndServe()
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if cfg.NatsURL != "" {
		nc, err := config.SetupNats(cfg.NatsURL)
		if err != nil {
			logger.Warn("NATS forwarding disabled", zap.Error(err))
		} else {
			logger.Info("connected to nats", zap.String("url", cfg.NatsURL))
			group.Go(func() error {
				defer nc.Close()
				return pubsub.NewNatsForwarder(broker, nc, logger).Run(ctx)
			})
		}
	}

	return group.Wait()
}

func setupRequestCacher(cfg *config.Config, logger *zap.Logger) cache.RequestCacher {
	if cfg.RedisURL == "" {
		return cache.CreateMemoryCache(cfg.ActivityMaxNumber)
	}

	client, err := config.SetupRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn("falling back to in-memory activity cache", zap.Error(err))
		return cache.CreateMemoryCache(cfg.ActivityMaxNumber)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.RedisURL))
	return cache.CreateRedisCache(client, cfg.ActivityMaxNumber)
}

func setupSearchMirror(ctx context.Context, cfg *config.Config, library db.LibraryManager, logger *zap.Logger) db.LibraryManager {
	client, err := config.SetupElasticSearch(cfg.ElasticURL)
	if err != nil {
		logger.Warn("search index mirror disabled", zap.Error(err))
		return library
	}

	index := db.NewElasticLibrary(client, cfg.ElasticIndex)
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Warn("search index mirror disabled", zap.Error(err))
		return library
	}

	for _, book := range library.Books() {
		if err := index.IndexBook(ctx, book); err != nil {
			logger.Warn("failed to index book", zap.String("id", book.ID), zap.Error(err))
		}
	}

	logger.Info("mirroring books to elasticsearch", zap.String("index", cfg.ElasticIndex))
	return db.NewMirroredLibrary(library, index, logger)
}
