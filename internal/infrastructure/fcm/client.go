package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging. A client with no credentials is
// valid and silently disabled, so push delivery stays optional.
type Client struct {
	client *messaging.Client
	log    zerolog.Logger
}

// NewClient initializes the FCM client from a service-account credentials
// file. An empty path disables push notifications.
func NewClient(ctx context.Context, credentialsPath string, log zerolog.Logger) (*Client, error) {
	if credentialsPath == "" {
		log.Warn().Msg("no Firebase credentials configured, push notifications disabled")
		return &Client{log: log}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting messaging client: %w", err)
	}

	log.Info().Msg("Firebase Cloud Messaging initialized")
	return &Client{client: client, log: log}, nil
}

// IsEnabled returns true if the client can send messages.
func (c *Client) IsEnabled() bool {
	return c.client != nil
}

// SendMulticast sends a notification to multiple device tokens.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if c.client == nil {
		return fmt.Errorf("FCM client not initialized")
	}
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "trade_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	resp, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("sending multicast: %w", err)
	}

	c.log.Debug().
		Int("success", resp.SuccessCount).
		Int("failures", resp.FailureCount).
		Msg("push notification sent")
	return nil
}
