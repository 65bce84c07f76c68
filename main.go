package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rentalweb/internal/apiclient"
	intconfig "rentalweb/internal/config"
	router "rentalweb/internal/http"
	"rentalweb/internal/http/handlers"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv(".env")
	if err != nil {
		utils.Log.Fatalf("config: %v", err)
	}
	utils.ConfigureLogger(env.LogLevel, env.LogFormat, os.Stdout)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	store, closeStore, err := openSessionStore(env)
	if err != nil {
		utils.Log.Fatalf("session store: %v", err)
	}
	defer closeStore()

	sessions := session.NewManager(store, env.SessionSecret, env.SessionTTL, env.CookieSecure)
	sweeper, err := session.NewSweeper(sessions, "@every 10m")
	if err != nil {
		utils.Log.Fatalf("session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	client := apiclient.New(env.APIBaseURL, env.APITimeout)
	client.PlacesKey = env.GooglePlacesKey

	r, err := router.NewRouter(env, handlers.Deps{
		API:           client,
		Sessions:      sessions,
		Location:      env.Location(),
		PublicBaseURL: env.PublicBaseURL,
		OTPCooldown:   env.OTPResendCooldown,
	})
	if err != nil {
		utils.Log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Log.Infof("listening on http://localhost%s (sessions: %s)", env.AppAddr, env.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Log.Errorf("shutdown failed: %v", err)
		return
	}
	utils.Log.Info("server stopped")
}

// openSessionStore picks the backend named by SESSION_BACKEND.
func openSessionStore(env intconfig.Env) (session.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch strings.ToLower(env.SessionBackend) {
	case "mysql":
		db, err := intconfig.ConnectDB(env.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		store := session.MySQLStore{DB: db}
		if err := store.EnsureTable(ctx); err != nil {
			intconfig.CloseDB()
			return nil, nil, err
		}
		return store, intconfig.CloseDB, nil
	case "redis":
		store := session.NewRedisStore(env.RedisAddr, env.RedisPassword, env.RedisDB)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
