package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/messagely/messagely/internal/auth/http"
	authservice "github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	"github.com/messagely/messagely/internal/common/config"
	"github.com/messagely/messagely/internal/common/constants"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	"github.com/messagely/messagely/internal/common/db"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/jwtverify"
	"github.com/messagely/messagely/internal/common/logger"
	srv "github.com/messagely/messagely/internal/common/server"
	messagehttp "github.com/messagely/messagely/internal/message/http"
	messagerepo "github.com/messagely/messagely/internal/message/repository"
	messageservice "github.com/messagely/messagely/internal/message/service"
	userhttp "github.com/messagely/messagely/internal/user/http"
	userrepo "github.com/messagely/messagely/internal/user/repository"
	userservice "github.com/messagely/messagely/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "messagely", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()
	db.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	realClock := clock.NewRealClock()
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	idGenerator := commoncrypto.NewUUIDGenerator()

	users := userrepo.NewPgRepository(pool)
	messages := messagerepo.NewPgRepository(pool)

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.AccessTokenTTL, realClock)
	authSvc := authservice.NewAuthService(users, hasher, issuer, realClock, log)
	userSvc := userservice.NewUserService(users, log)
	messageSvc := messageservice.NewMessageService(messages, idGenerator, realClock, log)

	verify := jwtverify.Middleware(cfg.JWTSecret, log)

	authHandler := authhttp.NewHandler(authSvc, cfg.RequestTimeout, log)
	usersHandler := verify(userhttp.NewHandler(userSvc, messageSvc, cfg.RequestTimeout, log))
	messagesHandler := verify(messagehttp.NewHandler(messageSvc, cfg.RequestTimeout, log))

	mux := http.NewServeMux()
	mux.Handle("/login", authHandler)
	mux.Handle("/register", authHandler)
	mux.Handle("/users", usersHandler)
	mux.Handle("/users/", usersHandler)
	mux.Handle("/messages", messagesHandler)
	mux.Handle("/messages/", messagesHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(log, mux)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log)
}
