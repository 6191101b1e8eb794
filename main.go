package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ariebrainware/sisreg/config"
	"github.com/ariebrainware/sisreg/docs"
	"github.com/ariebrainware/sisreg/endpoint"
	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/notify"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/storage"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title                       SisReg API
// @version                     1.0
// @description                 Referral regulation API: patients, exam and consultation requests, approvals, quotas and spending.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by the API token.
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        session-token
func main() {
	rootCmd := &cobra.Command{
		Use:           "sisreg",
		Short:         "Referral regulation API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roles and the initial admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = cfg.AdminPassword
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			created, err := seedAdmin(db, username, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Admin %q created.\n", username)
			} else {
				fmt.Printf("Admin %q already exists.\n", username)
			}
			return nil
		},
	}
	cmd.Flags().String("username", config.LoadConfig().AdminUsername, "Admin username")
	cmd.Flags().String("password", "", "Admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}

func openDB() (*gorm.DB, error) {
	db, err := config.ConnectMySQL()
	if err != nil {
		return nil, fmt.Errorf("error connecting to MySQL: %w", err)
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return model.SeedRoles(db)
}

func seedAdmin(db *gorm.DB, username, password string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return false, errors.New("admin username is required")
	}
	var existing model.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if len(password) < 8 {
		return false, errors.New("admin password must have at least 8 characters")
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		return false, err
	}
	hash, err := util.HashPasswordArgon2(password, salt)
	if err != nil {
		return false, err
	}
	admin := model.User{
		Name:         "Administrador",
		Username:     username,
		Password:     hash,
		PasswordSalt: salt,
		RoleID:       model.RoleAdmin,
	}
	return true, db.Create(&admin).Error
}

func runServer(ctx context.Context) error {
	cfg := config.LoadConfig()

	logger, err := util.NewLogger(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	util.SetLogger(logger)
	util.SetJWTSecret(cfg.JWTSecret)
	util.InitUserNameCache(cfg.UserCacheTTL)

	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn("GeoIP disabled", zap.Error(err))
	}
	defer func() {
		stats := util.GetGeoIPCacheMetrics()
		logger.Info("geoip cache", zap.Int64("hits", stats.Hits), zap.Int64("misses", stats.Misses), zap.Int("size", stats.Size))
		util.CloseGeoIP()
	}()

	db, err := openDB()
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}
	util.SetSecurityLoggerDB(db)

	if _, err := config.ConnectRedis(); err != nil {
		logger.Warn("Redis unavailable, sessions and rate limits stay in process", zap.Error(err))
	}
	defer func() { _ = config.CloseRedis() }()

	files, err := fileStore(ctx, cfg)
	if err != nil {
		return err
	}
	publisher, closePublisher, err := notificationPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := referral.New(db,
		referral.WithFileStore(files),
		referral.WithPublisher(publisher),
		referral.WithLogger(logger.Named("referral")),
	)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.ServiceMiddleware(svc))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Welcome to %s!", cfg.AppName)})
	})
	docs.SwaggerInfo.Title = cfg.AppName + " API"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	endpoint.RegisterRoutes(router, middleware.RateLimitConfig{})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// fileStore uses MinIO when configured and the local upload directory otherwise.
func fileStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	client, err := config.ConnectMinio(ctx)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return storage.NewMinio(client, cfg.MinioBucket), nil
	}
	util.Logger().Info("MINIO_ENDPOINT not set, storing files on disk", zap.String("dir", cfg.UploadDir))
	return storage.NewDisk(cfg.UploadDir)
}

// notificationPublisher uses RabbitMQ when configured and logs messages otherwise.
func notificationPublisher(cfg *config.Config, logger *zap.Logger) (notify.Publisher, func(), error) {
	conn, err := config.ConnectRabbitMQ()
	if err != nil {
		return nil, nil, err
	}
	if conn == nil {
		logger.Info("RABBITMQ_URL not set, notifications are only logged")
		return notify.LogPublisher{Log: logger.Named("notify")}, func() {}, nil
	}
	pub, err := notify.NewRabbitMQ(conn, logger.Named("notify"), cfg.NotificationQueue)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return pub, func() {
		_ = pub.Close()
		_ = conn.Close()
	}, nil
}
