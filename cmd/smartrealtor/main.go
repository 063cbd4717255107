package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/agent"
	"github.com/vcenk/SmartRealtorAgent/internal/ai"
	"github.com/vcenk/SmartRealtorAgent/internal/config"
	"github.com/vcenk/SmartRealtorAgent/internal/db"
	"github.com/vcenk/SmartRealtorAgent/internal/embedcache"
	"github.com/vcenk/SmartRealtorAgent/internal/filestore"
	"github.com/vcenk/SmartRealtorAgent/internal/handler"
	"github.com/vcenk/SmartRealtorAgent/internal/job"
	"github.com/vcenk/SmartRealtorAgent/internal/middleware"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/jwt"
	"github.com/vcenk/SmartRealtorAgent/internal/rag"
	"github.com/vcenk/SmartRealtorAgent/internal/repo"
	"github.com/vcenk/SmartRealtorAgent/internal/schedule"
	"github.com/vcenk/SmartRealtorAgent/internal/scraper"
	"github.com/vcenk/SmartRealtorAgent/internal/service"
	"github.com/vcenk/SmartRealtorAgent/internal/skills"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "smartrealtor",
		Short: "smartrealtor backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run smartrealtor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	var tokenTenant, tokenUser string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "mint a tenant console token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" || tokenTenant == "" {
				return fmt.Errorf("--config and --tenant are required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			token, err := jwt.GenerateToken(tokenTenant, tokenUser, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	tokenCmd.Flags().StringVar(&tokenTenant, "tenant", "", "tenant id to issue the token for")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "optional user id claim")
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	sourceRepo := repo.NewKnowledgeSourceRepo(database)
	chunkRepo := repo.NewKnowledgeChunkRepo(database)
	leadRepo := repo.NewLeadRepo(database)
	messageRepo := repo.NewMessageRepo(database)
	tenantRepo := repo.NewTenantRepo(database)

	var embedder ai.IEmbedder
	if cfg.AI.Provider != "" {
		provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
		if err != nil {
			return fmt.Errorf("init ai provider: %w", err)
		}
		embedder = ai.NewEmbedder(provider, cfg.AI.EmbedModel)
		embedder = embedcache.WrapLruCacheToEmbedder(embedder, cfg.AI.CacheSize, 2*time.Hour)
	} else {
		logutil.GetLogger(context.Background()).Warn("no ai provider configured, retrieval is lexical only")
	}

	sc := scraper.New(cfg.Crawler.UserAgent)
	retriever := rag.NewRetriever(chunkRepo, embedder)

	storage := service.NewAgentStorage(retriever, leadRepo, messageRepo)
	registry := skills.NewRegistry(storage)
	orchestrator := agent.NewOrchestrator(registry)

	chatService := service.NewChatService(orchestrator, storage, messageRepo, tenantRepo)
	knowledgeService := service.NewKnowledgeService(sourceRepo, chunkRepo, sc, embedder)
	leadService := service.NewLeadService(leadRepo)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	deps := handler.RouterDeps{
		Chat:      handler.NewChatHandler(chatService),
		Knowledge: handler.NewKnowledgeHandler(knowledgeService, store, cfg.Crawler.MaxPages),
		Leads:     handler.NewLeadHandler(leadService),
		Skills:    handler.NewSkillHandler(registry),
		Files:     handler.NewFileHandler(store),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if embedder != nil {
		if err := scheduler.AddJob(job.NewEmbeddingBackfillJob(knowledgeService, 50), cfg.BackfillCron); err != nil {
			return fmt.Errorf("schedule backfill: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
