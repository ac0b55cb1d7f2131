package notifier

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// LogNotifier is the in-repo market.Notifier: it records the delivery and
// leaves the actual push/email transport to the external notification system.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID, title, message string, data map[string]string) error {
	log.WithFields(log.Fields{
		"user_id": userID,
		"title":   title,
		"data":    data,
	}).Info(message)
	return nil
}

var _ market.Notifier = LogNotifier{}
