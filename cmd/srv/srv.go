package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/collabtext-lab/backend/config"
	"github.com/collabtext-lab/backend/internal/domain"
	"github.com/collabtext-lab/backend/internal/entity"
	"github.com/collabtext-lab/backend/internal/repository"
	"github.com/collabtext-lab/backend/pkg/kafka"
	"github.com/collabtext-lab/backend/pkg/logger"
	"github.com/collabtext-lab/backend/pkg/pubsub"
	xredis "github.com/collabtext-lab/backend/pkg/redis"
	"github.com/collabtext-lab/backend/pkg/router"
	"github.com/collabtext-lab/backend/pkg/xcontext"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger

	db          *gorm.DB
	redisClient *redis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber

	documentRepo   repository.DocumentRepository
	permissionRepo repository.PermissionRepository
	userRepo       repository.UserRepository

	documentDomain   domain.DocumentDomain
	permissionDomain domain.PermissionDomain
	userDomain       domain.UserDomain
	relayDomain      domain.RelayDomain

	router *router.Router
	server *http.Server
}

func (s *srv) contextWithValues(ctx context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	if s.db != nil {
		ctx = xcontext.WithDB(ctx, s.db)
	}

	return ctx
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func (s *srv) loadConfig() {
	bufferSize, err := strconv.Atoi(getEnv("RELAY_SESSION_BUFFER_SIZE", "256"))
	if err != nil {
		panic(err)
	}

	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "collabtext"),
			User:     getEnv("MYSQL_USER", "root"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
		},
		RelayServer: config.ServerConfigs{
			Host: getEnv("RELAY_HOST", "localhost"),
			Port: getEnv("RELAY_PORT", "8081"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Relay: config.RelayConfigs{
			SessionBufferSize: bufferSize,
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := xcontext.WithDB(context.Background(), s.db)
	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis() {
	s.redisClient = xredis.NewClient(s.configs.Redis.Addr)
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.documentRepo = repository.NewDocumentRepository()
	s.permissionRepo = repository.NewPermissionRepository()
	s.userRepo = repository.NewUserRepository()
}

func (s *srv) loadDomains() {
	s.documentDomain = domain.NewDocumentDomain(
		s.documentRepo, s.permissionRepo, s.publisher, s.redisClient)
	s.permissionDomain = domain.NewPermissionDomain(
		s.permissionRepo, s.documentRepo, s.userRepo, s.publisher)
	s.userDomain = domain.NewUserDomain(s.userRepo)
}
