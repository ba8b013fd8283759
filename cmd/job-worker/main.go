// Package main 异步生成任务执行器入口（job-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/infrastructure/messaging"
	einoobs "ainstein-ai-api/internal/observability/eino"
	"ainstein-ai-api/internal/wire"
	"ainstein-ai-api/pkg/logger"
	"ainstein-ai-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithOutput(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
		cfg.Observability.Logging.Output,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "job-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,

		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	einoobs.Init()

	worker, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	streamCfg := cfg.Messaging.RedisStream
	consumer := messaging.NewConsumer(worker.Redis.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamContentGen,
		Group:         messaging.ConsumerGroupGenWorker,
		ConsumerName:  hostnameConsumerName(),
		BlockTimeout:  streamCfg.BlockTimeout,
		ClaimInterval: streamCfg.ClaimInterval,
		RetryLimit:    streamCfg.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    streamCfg.RetryBackoff.Initial,
			Max:        streamCfg.RetryBackoff.Max,
			Multiplier: streamCfg.RetryBackoff.Multiplier,
		},
	})

	gen := worker.Generation
	consumer.RegisterHandler(messaging.TypeContentGeneration, func(ctx context.Context, msg *messaging.Message) error {
		var job messaging.GenerationJobMessage
		if err := msg.UnmarshalPayload(&job); err != nil {
			return err
		}
		// 生成失败已写入记录终态，只有基础设施错误才触发重试
		_, err := gen.Execute(ctx, job.GenerationID, job.Variables)
		return err
	})
	consumer.OnDeadLetter(func(ctx context.Context, msg *messaging.Message, cause error) {
		var job messaging.GenerationJobMessage
		if err := msg.UnmarshalPayload(&job); err != nil {
			logger.Error(ctx, "failed to decode dead letter payload", err, "message_id", msg.ID)
			return
		}
		reason := "unknown error"
		if cause != nil {
			reason = cause.Error()
		}
		if err := gen.Abandon(ctx, job.GenerationID, reason); err != nil {
			logger.Error(ctx, "failed to abandon generation", err, "generation_id", job.GenerationID)
		}
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	go consumer.MonitorDLQ(ctx, streamCfg.DLQAlertAt)

	log := logger.FromContext(ctx)
	log.Info("job-worker started", "generator", gen.GeneratorName())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("job-worker shutting down")
	consumer.Stop()
	cancel()
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
