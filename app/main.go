package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"cmms-backend/internal/routes"
	"cmms-backend/internal/scheduler"
	"cmms-backend/migrations"
	"cmms-backend/pkg/config"
	"cmms-backend/pkg/customvalidator"
	"cmms-backend/pkg/database/postgresql"
	"cmms-backend/pkg/eventbus"
	"cmms-backend/pkg/logger"
	"cmms-backend/pkg/service"
	"cmms-backend/pkg/utils"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		log.Fatal("миграции не применились", zap.Error(err))
	}

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis недоступен", zap.Error(err))
	}
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		log.Fatal("не удалось зарегистрировать валидаторы", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	bus := eventbus.New(log)

	pmService := routes.InitRouter(e, pool, redisClient, cfg, jwtService, bus, log)

	var pmScheduler *scheduler.PMScheduler
	if cfg.Scheduler.Enabled {
		pmScheduler = scheduler.NewPMScheduler(pmService, log)
		if err := pmScheduler.Start(cfg.Scheduler.CronSpec); err != nil {
			log.Fatal("планировщик ППР не запустился", zap.Error(err))
		}
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("сервер остановился с ошибкой", zap.Error(err))
		}
	}()
	log.Info("сервер запущен", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("получен сигнал остановки, завершаемся")
	if pmScheduler != nil {
		pmScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("ошибка при остановке сервера", zap.Error(err))
	}
}
