package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huynhanx03/go-esbulk/pkg/mq/kafka"
)

func newKafkaCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "kafka",
		Short: "Index JSON records consumed from Kafka topics",
		Example: `  ESBULK_KAFKA_BROKERS=localhost:9092 ESBULK_KAFKA_TOPICS=events esbulk kafka`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := bootstrap(ctx, *cfgPath)
			if err != nil {
				return err
			}

			consumer, err := kafka.NewConsumer(a.cfg.Kafka, kafka.NewHandler(a.writer, a.logger), a.logger)
			if err != nil {
				return err
			}
			defer consumer.Close()

			return a.run(ctx, consumer.Run)
		},
	}
}
