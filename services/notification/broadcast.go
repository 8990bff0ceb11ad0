package notification

import (
	"context"
	"fmt"

	userRepo "evcharge/database/repository/user"
	"evcharge/utils"

	"go.uber.org/zap"
)

// Broadcaster pushes operator announcements to every registered device.
type Broadcaster struct {
	Users    userRepo.UserRepository
	Delivery DeliveryGateway
}

// BroadcastToAll delivers the announcement to all known push tokens and
// returns the number of successful sends. Individual delivery failures are
// reported by the gateway, not retried here.
func (b *Broadcaster) BroadcastToAll(ctx context.Context, title, body string, data map[string]string) (int, error) {
	tokens, err := b.Users.GetPushTokens()
	if err != nil {
		return 0, fmt.Errorf("failed to load push tokens: %w", err)
	}
	if len(tokens) == 0 {
		utils.GetLogger().Info("broadcast skipped, no registered devices")
		return 0, nil
	}

	sent, err := b.Delivery.SendMulticast(ctx, tokens, title, body, data)
	if err != nil {
		return sent, fmt.Errorf("broadcast delivery failed: %w", err)
	}

	utils.GetLogger().Info("broadcast delivered",
		zap.Int("devices", len(tokens)), zap.Int("sent", sent), zap.String("title", title))
	return sent, nil
}
