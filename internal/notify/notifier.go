// Package notify sends desktop notifications for transfer events while the
// localdrop window is not focused.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/localdrop/localdrop/internal/config"
	"github.com/localdrop/localdrop/internal/dbus"
	"github.com/localdrop/localdrop/internal/format"
	"github.com/localdrop/localdrop/internal/model"
)

// Level indicates the severity of a notification.
type Level int

const (
	// LevelInfo is for informational messages (low urgency).
	LevelInfo Level = iota
	// LevelAction is for events awaiting the user (normal urgency).
	LevelAction
	// LevelError is for failures (critical urgency).
	LevelError
)

func (l Level) urgency() byte {
	switch l {
	case LevelInfo:
		return dbus.UrgencyLow
	case LevelError:
		return dbus.UrgencyCritical
	default:
		return dbus.UrgencyNormal
	}
}

func (l Level) icon() string {
	switch l {
	case LevelInfo:
		return "dialog-information"
	case LevelError:
		return "dialog-error"
	default:
		return "document-send"
	}
}

// Notifier sends rate-limited notifications over the session bus.
// A notification with the same key as a recent one replaces it on screen.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	caller dbus.Caller

	enabled     bool
	minInterval time.Duration
	timeout     time.Duration

	lastNotifyTime map[string]time.Time
	lastID         map[string]uint32
	now            func() time.Time
}

// New creates a Notifier configured from cfg.
func New(caller dbus.Caller, cfg config.NotifyConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	n := &Notifier{
		logger:         logger,
		caller:         caller,
		lastNotifyTime: make(map[string]time.Time),
		lastID:         make(map[string]uint32),
		now:            time.Now,
	}
	n.UpdateConfig(cfg)
	return n
}

// UpdateConfig applies new settings, used on config hot-reload.
func (n *Notifier) UpdateConfig(cfg config.NotifyConfig) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = cfg.Enabled
	n.minInterval = cfg.MinGap.Duration()
	n.timeout = cfg.Timeout.Duration()
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Notify sends a notification unless one with the same key was sent
// within the minimum interval. It reports whether a notification was sent.
func (n *Notifier) Notify(ctx context.Context, key, summary, body string, level Level) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled || n.caller == nil {
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
		return false
	}
	n.lastNotifyTime[key] = now

	notification := &dbus.Notification{
		AppName:       config.AppName,
		ReplacesID:    n.lastID[key],
		AppIcon:       level.icon(),
		Summary:       summary,
		Body:          body,
		ExpireTimeout: int32(n.timeout / time.Millisecond),
	}
	notification.SetHint("urgency", level.urgency())
	notification.SetHint("category", "transfer")
	notification.SetHint("desktop-entry", config.AppName)
	if level == LevelInfo {
		notification.SetHint("transient", true)
	}

	id, err := dbus.Notify(ctx, n.caller, notification)
	if err != nil {
		n.logger.Debug("failed to send notification", "key", key, "error", err)
		return false
	}
	n.lastID[key] = id

	n.logger.Debug("sent notification", "key", key, "id", id, "summary", summary)
	return true
}

// NotifyTransferRequest announces an incoming file offer.
func (n *Notifier) NotifyTransferRequest(ctx context.Context, req *model.TransferRequest) bool {
	files := "1 file"
	if c := req.FileCount(); c != 1 {
		files = fmt.Sprintf("%d files", c)
	}
	body := fmt.Sprintf("%s wants to send you %s (%s).",
		req.Sender(), files, format.SizeDefault(req.TotalSize()))
	return n.Notify(ctx, "transfer-request", "Incoming transfer", body, LevelAction)
}

// NotifyTransferComplete announces a finished transfer.
func (n *Notifier) NotifyTransferComplete(ctx context.Context) bool {
	return n.Notify(ctx, "transfer-result", "Transfer complete", "All files were transferred.", LevelInfo)
}

// NotifyTransferFailed announces a failed transfer.
func (n *Notifier) NotifyTransferFailed(ctx context.Context, reason string) bool {
	body := "The transfer did not finish."
	if reason != "" {
		body = "The transfer did not finish: " + reason
	}
	return n.Notify(ctx, "transfer-result", "Transfer failed", body, LevelError)
}

// NotifyConfigError reports a config file that failed to reload.
func (n *Notifier) NotifyConfigError(ctx context.Context, err error) bool {
	return n.Notify(ctx, "config-error", "Configuration Error",
		"Failed to reload configuration: "+err.Error(), LevelError)
}
