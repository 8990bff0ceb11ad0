package notification

import (
	"context"
	"fmt"

	"evcharge/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCM caps multicast batches at 500 tokens per request.
const multicastBatchSize = 500

// FCMGateway delivers pushes through Firebase Cloud Messaging.
type FCMGateway struct {
	client *messaging.Client
}

func NewFCMGateway(client *messaging.Client) *FCMGateway {
	return &FCMGateway{client: client}
}

func (g *FCMGateway) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := g.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	utils.GetLogger().Debug("push delivered", zap.String("messageId", id))
	return nil
}

func (g *FCMGateway) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	sent := 0
	for start := 0; start < len(tokens); start += multicastBatchSize {
		end := start + multicastBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		messages := make([]*messaging.Message, 0, end-start)
		for _, token := range tokens[start:end] {
			messages = append(messages, &messaging.Message{
				Token: token,
				Notification: &messaging.Notification{
					Title: title,
					Body:  body,
				},
				Data: data,
			})
		}

		resp, err := g.client.SendEach(ctx, messages)
		if err != nil {
			return sent, fmt.Errorf("fcm multicast failed: %w", err)
		}
		sent += resp.SuccessCount
		if resp.FailureCount > 0 {
			utils.GetLogger().Warn("multicast partial failure",
				zap.Int("failed", resp.FailureCount), zap.Int("batch", end-start))
		}
	}
	return sent, nil
}
