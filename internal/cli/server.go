package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"symptom-quiz-service/internal/app"
	"symptom-quiz-service/internal/config"
	"symptom-quiz-service/internal/infra/memory"
	pgsource "symptom-quiz-service/internal/infra/postgres"
	redisinfra "symptom-quiz-service/internal/infra/redis"
	"symptom-quiz-service/internal/infra/sheets"
	"symptom-quiz-service/internal/infra/shopify"
	transport "symptom-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the intake quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Remote catalog with the built-in list as fallback; metaobjects win
	// over Postgres when both are configured.
	var source app.QuestionSource = memory.NewBuiltinQuestionSource()
	var remote app.QuestionSource
	if cfg.Catalog.UseRemote && cfg.Shopify.StorefrontURL != "" {
		remote = shopify.NewMetaobjectSource(cfg.Shopify.StorefrontURL, cfg.Shopify.APIVersion, cfg.Shopify.StorefrontToken)
	} else if pool != nil {
		remote = pgsource.NewQuestionSource(pool)
	}
	if remote != nil {
		source = app.NewFallbackSource(remote, source)
	}
	if redisClient != nil {
		source = redisinfra.NewCachedSource(redisClient, source, catalogTTL)
	} else {
		source = memory.NewCachedSource(source, catalogTTL)
	}

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var adminClient *shopify.AdminClient
	if cfg.Shopify.StoreDomain != "" && cfg.Shopify.AccessToken != "" {
		adminClient = shopify.NewAdminClient(cfg.Shopify.StoreDomain, cfg.Shopify.AccessToken, cfg.Shopify.APIVersion)
	}

	var products app.ProductLookup
	if cfg.Shopify.StorefrontURL != "" {
		products = shopify.NewProductCatalog(cfg.Shopify.StorefrontURL)
	}
	presenter := app.NewPresenter(products, cfg.Quiz.ProductHandleFormat)

	sinks := []app.SubmissionSink{sheets.NewSubmitter(cfg.Sheets.WebAppURL, cfg.Environment)}
	if adminClient != nil {
		sinks = append(sinks, adminClient)
	}

	service := app.NewIntakeService(source, memory.BuiltinCategoryInfo(), sessions, presenter, cfg.Quiz.ProfilePrefix, sinks...)

	origins := transport.NewOriginPolicy(cfg.CORS.AllowedOrigins)
	wizard := transport.NewWizardHandler(service, origins)

	var summaryStore transport.CustomerSummaryStore
	if adminClient != nil {
		summaryStore = adminClient
	}
	proxy := transport.NewProxyHandler(origins, summaryStore, cfg.Sheets.WebAppURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wizard.ServeWS)
	mux.HandleFunc("/preview", transport.PreviewHandler(service))
	mux.Handle("/api/", proxy)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("starting symptom quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
