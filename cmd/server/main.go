package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/routes"
	"github.com/khaledtf19/Lposts2-Backend/internal/auth"
	"github.com/khaledtf19/Lposts2-Backend/internal/config"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/memory"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/migrations"
	postgresRepo "github.com/khaledtf19/Lposts2-Backend/internal/db/postgres"
	redisCache "github.com/khaledtf19/Lposts2-Backend/internal/db/redis"
)

// repositories groups the storage backend chosen at startup
type repositories struct {
	users    users.UserRepository
	posts    posts.Repository
	comments comments.Repository
	tx       relations.Transactor
	inTx     redisCache.TxDetector
	close    func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if cfg.DevMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if closeErr := repos.close(); closeErr != nil {
			log.Printf("Failed to close storage: %v", closeErr)
		}
	}()

	// Optional read-through cache for single-post reads
	postRepo := repos.posts
	if cfg.RedisURL != "" {
		client, err := redisCache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				log.Printf("Failed to close redis client: %v", closeErr)
			}
		}()
		postRepo = redisCache.NewCachedPostRepository(postRepo, client, cfg.PostCacheTTL, repos.inTx, logger)
		log.Printf("Post cache enabled (ttl=%s)", cfg.PostCacheTTL)
	}

	// Initialize services
	userService := users.NewUserService(repos.users, logger)
	postService := posts.NewPostService(postRepo, repos.users, repos.comments, repos.tx, logger)
	commentService := comments.NewCommentService(repos.comments, postRepo, userService, repos.tx, logger)

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.JWTIssuer)
	if err != nil {
		log.Fatal("Failed to create token service: ", err)
	}
	authMiddleware := middleware.NewJWTAuthMiddleware(tokens)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(chiMiddleware.SetHeader("X-Frame-Options", "DENY"))
	r.Use(chiMiddleware.SetHeader("Referrer-Policy", "no-referrer"))

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	// Authenticated callers are limited per user, everyone else per IP
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalAuth)
		r.Use(rateLimiter.Middleware)

		routes.RegisterAuthRoutes(r, userService, tokens)
		routes.RegisterUserRoutes(r, userService, authMiddleware)
		routes.RegisterPostRoutes(r, postService, authMiddleware)
		routes.RegisterCommentRoutes(r, commentService, authMiddleware)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Failed to write health check response: %v", err)
		}
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Lposts2 API starting on port %s (storage=%s)", cfg.Port, cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

// openStorage connects the configured backend and runs migrations for postgres
func openStorage(ctx context.Context, cfg config.Config) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Println("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			posts:    store.Posts(),
			comments: store.Comments(),
			tx:       store,
			inTx:     memory.InTx,
			close:    func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("Connected to database")

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	return &repositories{
		users:    postgresRepo.NewUserRepository(db),
		posts:    postgresRepo.NewPostRepository(db),
		comments: postgresRepo.NewCommentRepository(db),
		tx:       postgresRepo.NewTransactor(db),
		inTx:     postgresRepo.InTx,
		close:    db.Close,
	}, nil
}
