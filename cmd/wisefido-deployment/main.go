package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/common/database"
	"github.com/sensor-management-system/orchestration-sub007/common/logger"
	commonmqtt "github.com/sensor-management-system/orchestration-sub007/common/mqtt"
	commonredis "github.com/sensor-management-system/orchestration-sub007/common/redis"
	"github.com/sensor-management-system/orchestration-sub007/internal/config"
	httpapi "github.com/sensor-management-system/orchestration-sub007/internal/http"
	"github.com/sensor-management-system/orchestration-sub007/internal/mqtt"
	"github.com/sensor-management-system/orchestration-sub007/internal/repository"
	"github.com/sensor-management-system/orchestration-sub007/internal/resolver"
	"github.com/sensor-management-system/orchestration-sub007/internal/service"
	"github.com/sensor-management-system/orchestration-sub007/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-deployment")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		configurationsRepo repository.ConfigurationsRepository
		equipmentRepo      repository.EquipmentRepository
		mountsRepo         repository.MountActionsRepository
		parametersRepo     repository.ParametersRepository
		archivalRepo       repository.ArchivalRepository
	)

	var db *sql.DB
	if cfg.Database.Enabled {
		if d, err := database.NewPostgresDB(&cfg.Database.DatabaseConfig); err == nil {
			db = d
			log.Info("DB enabled for wisefido-deployment")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory store", zap.Error(err))
		}
	}
	if db != nil {
		configurationsRepo = repository.NewPostgresConfigurationsRepository(db)
		equipmentRepo = repository.NewPostgresEquipmentRepository(db)
		mountsRepo = repository.NewPostgresMountActionsRepository(db)
		parametersRepo = repository.NewPostgresParametersRepository(db)
		archivalRepo = repository.NewPostgresArchivalRepository(db, log)
	} else {
		// 内存仓库：便于联调，数据随进程丢失
		mem := repository.NewMemoryStore()
		configurationsRepo = mem
		equipmentRepo = mem
		mountsRepo = mem
		parametersRepo = mem
		archivalRepo = mem
	}

	// 安装记录快照缓存（Redis），失效事件来自 MQTT 与归档
	var redisClient *commonredis.Client
	var cache *repository.CachedMountActionsRepo
	if cfg.Cache.Enabled {
		redisClient = commonredis.NewRedisClient(&cfg.Redis)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := commonredis.Ping(pingCtx, redisClient)
		pingCancel()
		if err != nil {
			// 缓存读写失败时会回落到底层仓库，这里只告警
			log.Warn("Redis not reachable, snapshot cache will fall back", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cache = repository.NewCachedMountActionsRepo(mountsRepo, store.NewRedisKV(redisClient), time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
		mountsRepo = cache
	}

	var invalidator service.CacheInvalidator
	if cache != nil {
		invalidator = cache
	}

	var mqttClient *commonmqtt.Client
	if cfg.MQTT.Enabled && invalidator != nil {
		c, err := commonmqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("MQTT connection failed, cache relies on TTL only", zap.Error(err))
		} else {
			broker := mqtt.NewMountEventBroker(invalidator, log)
			if err := c.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, broker.HandleMessage); err != nil {
				log.Warn("MQTT subscribe failed", zap.String("topic", cfg.MQTT.Topic), zap.Error(err))
			}
			mqttClient = c
		}
	}

	deployment := httpapi.NewDeploymentHandler(
		service.NewAvailabilityService(equipmentRepo, mountsRepo, log),
		service.NewConfigurationService(configurationsRepo, equipmentRepo, mountsRepo, parametersRepo, log),
		service.NewArchiveService(archivalRepo, invalidator, resolver.SystemClock{}, log),
		log,
	)
	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterDeploymentRoutes(deployment)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		_ = mqttClient.Unsubscribe(cfg.MQTT.Topic)
		mqttClient.Disconnect()
	}
	_ = commonredis.Close(redisClient)
	if db != nil {
		_ = database.Close(db)
	}
}
