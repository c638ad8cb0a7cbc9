package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/dawidkulpa/vesync2mqtt/internal/adapter/actor"
	"github.com/dawidkulpa/vesync2mqtt/internal/config"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/actor"
	"github.com/dawidkulpa/vesync2mqtt/internal/core/domain"
	"github.com/dawidkulpa/vesync2mqtt/internal/server"
	"github.com/dawidkulpa/vesync2mqtt/internal/util/actorutil"
	"github.com/dawidkulpa/vesync2mqtt/pkg/vesync"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	// cloud manager shared by the actor system and the diagnostics endpoint
	manager := vesync.NewCloudManager(cfg.VeSync.Username, cfg.VeSync.Password,
		cfg.VeSync.TimeZone, requestTimeout(cfg), logger)

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, vesyncActorProvider(cfg, manager, logger), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return
	}

	// periodic account rescan
	if cfg.MonitorConfig.RescanIntervalMinutes > 0 {
		if err := startRescanScheduler(cfg, ctx, pid, logger); err != nil {
			logger.Error("could not start rescan scheduler", zap.Error(err))
		}
	}

	server := server.NewServer(*cfg, ctx, pid, manager)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => VESYNC_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("VESYNC_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("vesync")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.VeSync.Username == "" || cfg.VeSync.Password == "" {
		return nil, errors.New("config params vesync.username and vesync.password are required")
	}
	if cfg.VeSync.RequestTimeoutMillis < 1000 {
		return nil, errors.New("config param vesync.request_timeout_millis should be >= 1000")
	}
	// the vendor cloud rate-limits aggressive polling
	if cfg.MonitorConfig.PollIntervalMillis < 10000 {
		return nil, errors.New("config param monitor.poll_interval_millis should be >= 10000")
	}

	return &cfg, nil
}

func requestTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.VeSync.RequestTimeoutMillis) * time.Millisecond
}

func vesyncActorProvider(cfg *config.Config, manager vesync.Manager, logger *zap.Logger) actor.VeSyncActorProvider {
	return func() *adactor.VeSyncActor {
		return adactor.NewVeSyncActor(manager, requestTimeout(cfg), logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func() *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, logger)
	}
}

func startRescanScheduler(cfg *config.Config, ctx *pactor.RootContext, master *pactor.PID, logger *zap.Logger) error {
	sched := quartz.NewStdScheduler()
	sched.Start(context.Background())

	rescanJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		logger.Debug("scheduled device rescan")
		ctx.Send(master, domain.RefreshDevicesRequest{})
		return true, nil
	})
	trigger := quartz.NewSimpleTrigger(time.Duration(cfg.MonitorConfig.RescanIntervalMinutes) * time.Minute)

	return sched.ScheduleJob(quartz.NewJobDetail(rescanJob, quartz.NewJobKey("device_rescan")), trigger)
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "vesync2mqtt")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("monitor.poll_interval_millis", 30000)
	viper.SetDefault("monitor.rescan_interval_minutes", 0)
	viper.SetDefault("vesync.request_timeout_millis", 5000)
	viper.SetDefault("vesync.time_zone", "America/New_York")
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.VeSync.Username = "*redacted*"
	cfg.VeSync.Password = "*redacted*"
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
