package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"intituas-ai-be/internal/config"
	"intituas-ai-be/pkg/events"
	pktNats "intituas-ai-be/pkg/nats"

	"github.com/spf13/cobra"
)

type eventView struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	Data       map[string]interface{} `json:"data"`
}

func newEventsCmd(root *rootOptions) *cobra.Command {
	var (
		eventType string
		durable   string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail domain events from the NATS stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.App.NatsURL == "" {
				return fmt.Errorf("NATS_URL is not set")
			}
			sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			subject := "events.>"
			if eventType != "" {
				subject = pktNats.Subject(eventType)
			}
			return sub.Subscribe(ctx, subject, durable, func(_ context.Context, e events.Event) error {
				return render(cmd.OutOrStdout(), root.output, eventView{
					Type:       e.EventType(),
					OccurredAt: e.Timestamp(),
					Data:       e.Payload(),
				})
			})
		},
	}
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "only show one event type, e.g. QUESTION_ANSWERED")
	cmd.Flags().StringVar(&durable, "durable", "intituasctl", "durable consumer name")
	return cmd
}
