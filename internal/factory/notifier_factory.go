package factory

import (
	"fmt"

	"github.com/mikey/contract-sentinel/internal/adapters/notify"
	"github.com/mikey/contract-sentinel/internal/config"
	"github.com/mikey/contract-sentinel/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates report notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifyCfg := f.cfg.GetNotify()

	switch notifyCfg.Type {
	case "", "none":
		return notify.NoopNotifier{}, nil
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "smtp":
		smtpCfg := notifyCfg.SMTP
		return notify.NewSMTPNotifier(
			smtpCfg.Address,
			smtpCfg.Port,
			smtpCfg.Username,
			smtpCfg.Password,
			smtpCfg.From,
			smtpCfg.To,
			smtpCfg.SubjectPrefix,
			notifyCfg.OnlyAlerts,
			f.logger,
		)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifyCfg.Type)
	}
}
