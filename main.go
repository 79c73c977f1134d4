package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"project-api/internal/auth"
	"project-api/internal/notification"
	"project-api/internal/user"
	"project-api/pkg/config"
	"project-api/pkg/encryption"
	"project-api/pkg/guard"
	"project-api/pkg/jwt_generator"
	"project-api/pkg/logger"
	"project-api/pkg/metrics"
	"project-api/pkg/ratelimit"
	"project-api/pkg/server"
)

func main() {
	log := logger.NewLogger()
	defer func(l *zap.SugaredLogger) {
		_ = l.Sync()
	}(log)

	isAtRemote := os.Getenv(config.IsAtRemote)
	if isAtRemote == "" {
		err := godotenv.Load()
		if err != nil {
			log.Warnw(
				"failed to load .env file",
				zap.Error(err),
			)
		}
	}

	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalw(
			"failed to read config",
			zap.Error(err),
		)
	}
	cfg.Print()

	jwtGenerator, err := jwt_generator.NewJwtGenerator(cfg.Jwt)
	if err != nil {
		log.Fatalw(
			"failed to create jwt generator",
			zap.Error(err),
		)
	}

	passwordHasher, err := encryption.NewPasswordHasher(cfg.Security.BcryptCost)
	if err != nil {
		log.Fatalw(
			"failed to create password hasher",
			zap.Error(err),
		)
	}

	ctx := context.Background()
	userRepository, closeStore, err := setupUserRepository(ctx, cfg)
	if err != nil {
		log.Fatalw(
			"failed to setup credential store",
			zap.String("driver", cfg.StoreDriver),
			zap.Error(err),
		)
	}
	defer closeStore()

	notifier, err := setupNotifier(cfg)
	if err != nil {
		log.Fatalw(
			"failed to setup password reset notifier",
			zap.Error(err),
		)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Errorw("failed to close notifier", zap.Error(err))
		}
	}()

	appMetrics := metrics.NewMetrics()
	limiter := ratelimit.NewLimiter(cfg.RateLimit)
	requireAccess := guard.RequireAccessToken(jwtGenerator)

	authService := auth.NewService(
		userRepository,
		jwtGenerator,
		passwordHasher,
		notifier,
		appMetrics,
		auth.Settings{
			PasswordResetTokenTtl: cfg.Security.PasswordResetTokenTtl,
			ExposeResetToken:      cfg.Security.ExposeResetToken,
		},
	)
	authHandler := auth.NewHandler(authService, requireAccess, limiter.Middleware())
	userHandler := user.NewHandler(userRepository, requireAccess, guard.RequireRole(user.RoleAdmin))

	handlers := []server.Handler{authHandler, userHandler}
	srv := server.NewServer(cfg, handlers)

	app := srv.GetFiberInstance()
	app.Use(logger.Middleware(log))
	app.Use(appMetrics.Middleware())
	app.Get(server.ApiPrefix+"/metrics", appMetrics.Handler())

	srv.RegisterRoutes()

	if isAtRemote == "" {
		err = srv.Start()
		if err != nil {
			log.Fatalw(
				"server stopped unexpectedly",
				zap.Error(err),
			)
		}
	} else {
		lambda.Start(srv.LambdaProxyHandler)
	}
}

func setupUserRepository(ctx context.Context, cfg *config.Config) (user.Repository, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return user.NewMemoryRepository(), func() {}, nil
	}

	mongodbClient, err := setupMongodbClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	closeStore := func() {
		_ = mongodbClient.Disconnect(context.Background())
	}

	userRepository := user.NewRepository(mongodbClient, cfg.Mongodb)
	err = userRepository.EnsureIndexes(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return userRepository, closeStore, nil
}

func setupMongodbClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	mongodbCredential := options.Credential{
		Username: cfg.Mongodb.Username,
		Password: cfg.Mongodb.Password,
	}
	mongodbServerAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	credentials := options.Client().
		ApplyURI(cfg.Mongodb.Uri).
		SetAuth(mongodbCredential).
		SetServerAPIOptions(mongodbServerAPIOptions).
		SetTimeout(cfg.Mongodb.Timeout)

	mongodbClient, err := mongo.Connect(ctx, credentials)
	if err != nil {
		return nil, err
	}

	return mongodbClient, nil
}

func setupNotifier(cfg *config.Config) (notification.Notifier, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return notification.NewLogNotifier(), nil
	}

	encryptionKey, err := encryption.ParseKey(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, err
	}

	return notification.NewKafkaNotifier(cfg.Kafka, encryptionKey)
}
