package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/digitalpro/contact-gateway/internal/config"
	gateway "github.com/digitalpro/contact-gateway/internal/gateways"
	"github.com/digitalpro/contact-gateway/internal/notifier"
	"github.com/digitalpro/contact-gateway/pkg/logger"
	"github.com/digitalpro/contact-gateway/pkg/prom"
	"github.com/digitalpro/contact-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	client, err := gateway.NewClient(&gateway.Config{
		PrimaryURL:      config.Get().WebhookPrimaryUrl,
		BackupURL:       config.Get().WebhookBackupUrl,
		Timeout:         config.Get().WebhookTimeout,
		MaxRetries:      config.Get().WebhookMaxRetries,
		RetryDelay:      config.Get().WebhookRetryDelay,
		MaxConns:        100,
		ReadBufferSize:  1024 * 4,
		WriteBufferSize: 1024 * 4,
	})
	if err != nil {
		logger.Error("failed to create webhook gateway", "error", err)
		return
	}

	service, err := notifier.NewService(redisAdap)
	if err != nil {
		logger.Error("failed to create notifier service", "error", err)
		return
	}
	guard := notifier.NewDeliveryGuard(redisAdap, notifier.DefaultGuardConfig())
	service.RegisterProcessor(notifier.NewSubmissionEventProcessor(client, guard))

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	go func() {
		if err := service.Start(); err != nil {
			logger.Error("failed to start notifier", "error", err)
		}
	}()

	select {
	case <-c:
		service.Stop()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
