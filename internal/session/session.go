package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/localdrop/localdrop/internal/adapter/input"
	"github.com/localdrop/localdrop/internal/audio"
	"github.com/localdrop/localdrop/internal/history"
	"github.com/localdrop/localdrop/internal/model"
	"github.com/localdrop/localdrop/internal/store"
)

// BusyReason is recorded when an offer is rejected because another
// request is still waiting for an answer.
const BusyReason = "busy: another request is pending"

// SoundPlayer plays a named sound effect.
type SoundPlayer interface {
	Play(name string) error
}

// Notifier shows desktop notifications for transfer events.
type Notifier interface {
	NotifyTransferRequest(ctx context.Context, req *model.TransferRequest) bool
	NotifyTransferComplete(ctx context.Context) bool
	NotifyTransferFailed(ctx context.Context, reason string) bool
}

// Recorder persists finished transfers.
type Recorder interface {
	Append(r model.TransferRecord) error
}

// CommandSink receives commands for the transfer backend.
type CommandSink interface {
	WriteCommand(cmd model.Command) error
}

// Options configures a Session. Only Store is required.
type Options struct {
	Store    *store.Store
	Commands CommandSink
	Sfx      SoundPlayer
	Notifier Notifier
	History  Recorder

	// StaleAfter prunes devices not rediscovered within this window.
	// Zero disables pruning.
	StaleAfter time.Duration

	// PruneInterval is how often stale devices are checked for.
	// Defaults to a third of StaleAfter.
	PruneInterval time.Duration

	Logger *slog.Logger
}

// Session folds backend events into the store and turns user answers into
// backend commands.
type Session struct {
	mu     sync.Mutex
	logger *slog.Logger

	store    *store.Store
	commands CommandSink
	sfx      SoundPlayer
	notifier Notifier
	history  Recorder

	staleAfter    time.Duration
	pruneInterval time.Duration

	// active describes the transfer in flight, used to build its history
	// record when it finishes.
	active *model.TransferRecord

	now func() time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a Session from opts.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	st := opts.Store
	if st == nil {
		st = store.New()
	}

	s := &Session{
		logger:   logger,
		store:    st,
		commands: opts.Commands,
		sfx:      opts.Sfx,
		notifier: opts.Notifier,
		history:  opts.History,
		now:      time.Now,
	}
	s.setStaleAfter(opts.StaleAfter, opts.PruneInterval)
	return s
}

// Store returns the state container the session feeds.
func (s *Session) Store() *store.Store {
	return s.store
}

func (s *Session) setStaleAfter(staleAfter, interval time.Duration) {
	if interval <= 0 {
		interval = staleAfter / 3
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleAfter = staleAfter
	s.pruneInterval = interval
}

// SetStaleAfter changes the pruning window, used on config hot-reload.
// The prune ticker keeps its interval until the next Start.
func (s *Session) SetStaleAfter(staleAfter time.Duration) {
	s.setStaleAfter(staleAfter, 0)
}

// HandleEvent applies one backend event and triggers its side effects:
// a "pop" and a notification for new offers, a "success" and a
// notification on completion, and a history record for finished transfers.
// An offer that arrives while another is pending is rejected on the spot.
func (s *Session) HandleEvent(ctx context.Context, e model.Event) error {
	if err := e.EnsureID(); err != nil {
		return err
	}

	err := s.store.Apply(e)

	switch e.Type {
	case model.EventTransferRequest:
		if errors.Is(err, store.ErrQueueFull) {
			return s.rejectBusy(e.Request)
		}
		if err != nil {
			return err
		}
		s.playSound(audio.SoundPop)
		if s.notifier != nil && !s.store.IsFocused() {
			s.notifier.NotifyTransferRequest(ctx, e.Request)
		}

	case model.EventTransferComplete:
		if err != nil {
			return err
		}
		s.playSound(audio.SoundSuccess)
		if s.notifier != nil && !s.store.IsFocused() {
			s.notifier.NotifyTransferComplete(ctx)
		}
		s.finish(model.OutcomeComplete, "")

	case model.EventTransferFailed:
		if err != nil {
			return err
		}
		if s.notifier != nil && !s.store.IsFocused() {
			s.notifier.NotifyTransferFailed(ctx, e.Error)
		}
		s.finish(model.OutcomeFailed, e.Error)

	default:
		return err
	}
	return nil
}

// rejectBusy answers an overflow offer without touching the pending one.
func (s *Session) rejectBusy(req *model.TransferRequest) error {
	s.logger.Info("rejecting transfer request, another is pending",
		"request_id", req.ID, "sender", req.Sender())

	s.record(history.Incoming(req, model.OutcomeRejected, BusyReason))
	return s.send(model.NewCommand(model.ActionReject, req.ID, req.Data.DeviceInfo.ID))
}

// Accept answers the pending request with accept.
func (s *Session) Accept() (model.Command, error) {
	req, ok := s.store.PendingRequest()
	cmd, err := s.store.AcceptTransfer()
	if err != nil {
		return cmd, err
	}

	if ok {
		rec := history.Incoming(req, "", "")
		s.mu.Lock()
		s.active = &rec
		s.mu.Unlock()
	}
	return cmd, s.send(cmd)
}

// Reject answers the pending request with reject.
func (s *Session) Reject() (model.Command, error) {
	req, ok := s.store.PendingRequest()
	cmd, err := s.store.RejectTransfer()
	if err != nil {
		return cmd, err
	}

	if ok {
		s.record(history.Incoming(req, model.OutcomeRejected, ""))
	}
	return cmd, s.send(cmd)
}

// Send offers the selected files to the device with receiverID.
func (s *Session) Send(receiverID string) (model.Command, error) {
	if err := s.store.BeginSend(receiverID); err != nil {
		return model.Command{}, err
	}

	id, err := model.NewRequestID()
	if err != nil {
		return model.Command{}, err
	}

	files := s.store.SelectedFiles()
	peer := receiverID
	if d, ok := s.store.Device(receiverID); ok {
		peer = d.DisplayName()
	}

	rec := history.Outgoing(id, peer, files, "", "")
	s.mu.Lock()
	s.active = &rec
	s.mu.Unlock()

	cmd := model.NewSendCommand(id, receiverID, files)
	return cmd, s.send(cmd)
}

// Cancel stops the transfer in flight.
func (s *Session) Cancel() (model.Command, error) {
	s.mu.Lock()
	id := ""
	if s.active != nil {
		id = s.active.ID
	}
	s.mu.Unlock()

	cmd, err := s.store.CancelTransfer(id)
	if err != nil {
		return cmd, err
	}
	s.finish(model.OutcomeCancelled, "")
	return cmd, s.send(cmd)
}

// Refresh marks the device list as refreshing, drops stale devices and
// asks the backend to rediscover peers.
func (s *Session) Refresh() (model.Command, error) {
	if err := s.store.SetDevicesRefreshing(true); err != nil {
		return model.Command{}, err
	}
	s.Prune()

	cmd := model.NewCommand(model.ActionRefresh, "", "")
	return cmd, s.send(cmd)
}

// Active returns the transfer in flight, if any.
func (s *Session) Active() (model.TransferRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return model.TransferRecord{}, false
	}
	return *s.active, true
}

// finish records the transfer in flight with outcome.
func (s *Session) finish(outcome model.Outcome, errMsg string) {
	s.mu.Lock()
	active := s.active
	s.active = nil
	s.mu.Unlock()

	if active == nil {
		return
	}
	rec := *active
	rec.Outcome = outcome
	rec.Error = errMsg
	rec.Timestamp = s.now().Unix()
	s.record(rec)
}

func (s *Session) record(rec model.TransferRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(rec); err != nil {
		s.logger.Warn("failed to record transfer", "id", rec.ID, "error", err)
	}
}

func (s *Session) send(cmd model.Command) error {
	if s.commands == nil {
		return nil
	}
	if err := s.commands.WriteCommand(cmd); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	s.logger.Debug("command sent", "action", cmd.Action, "request_id", cmd.RequestID)
	return nil
}

func (s *Session) playSound(sound audio.Sound) {
	if s.sfx == nil {
		return
	}
	if err := s.sfx.Play(string(sound)); err != nil {
		s.logger.Debug("sound effect failed", "sound", sound, "error", err)
	}
}

// Run consumes src until it ends or ctx is cancelled. Invalid events are
// logged and skipped.
func (s *Session) Run(ctx context.Context, src input.EventSource) error {
	events, errs := src.Stream(ctx)
	s.logger.Debug("event stream opened", "source", src.Name())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return <-errs
			}
			if err := s.HandleEvent(ctx, e); err != nil {
				s.logger.Warn("failed to apply event", "type", e.Type, "id", e.ID, "error", err)
			}
		}
	}
}

// Start begins pruning stale devices. It is a no-op when pruning is off.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running || s.staleAfter <= 0 {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	interval := s.pruneInterval
	s.mu.Unlock()

	go s.pruneLoop(ctx, interval)

	s.logger.Debug("device pruning started", "interval", interval)
	return nil
}

// Stop stops pruning.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for goroutine to finish
	<-s.doneCh
	s.logger.Debug("device pruning stopped")
}

func (s *Session) pruneLoop(ctx context.Context, interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}

// Prune removes devices older than the stale window and returns how many
// were dropped.
func (s *Session) Prune() int {
	s.mu.Lock()
	staleAfter := s.staleAfter
	s.mu.Unlock()

	if staleAfter <= 0 {
		return 0
	}
	n, err := s.store.PruneDevices(s.now(), staleAfter)
	if err != nil {
		s.logger.Debug("device prune skipped", "error", err)
		return 0
	}
	if n > 0 {
		s.logger.Info("pruned stale devices", "count", n)
	}
	return n
}
