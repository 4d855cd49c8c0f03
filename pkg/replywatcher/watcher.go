// Package replywatcher implements the Reply Watcher (C8): a background
// loop that polls each application's mailbox thread for new messages and
// classifies interview offers. Grounded on the teacher's
// pkg/cleanup/service.go idiom (idempotent Start/Stop over a cancel +
// done-channel ticker loop); the polling target is
// original_source/agents/gmail_watcher.py, itself a stub — the mailbox
// read is an adapter boundary (MailboxProvider), not a real Gmail client
// (mail delivery and inbound integration are out of scope).
package replywatcher

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/models"
)

// interviewKeywords are the exact heuristic named in SPEC_FULL.md §4.8;
// nothing more sophisticated is implemented.
var interviewKeywords = []string{"interview", "schedule", "meet", "call", "chat"}

// IsInterviewOffer reports whether a reply's body reads like an interview
// invitation.
func IsInterviewOffer(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range interviewKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MailboxProvider is the adapter boundary a concrete mail backend
// implements. Poll returns any new messages received on threadID since
// the watcher last checked it.
type MailboxProvider interface {
	Poll(ctx context.Context, userID, threadID string) ([]models.MailboxMessage, error)
}

// TrackedApplication is the minimal view the watcher needs of an
// Application in status "sent".
type TrackedApplication struct {
	UserID        string
	ApplicationID string
	ThreadID      string
}

// ApplicationSource supplies the set of applications currently awaiting a
// reply. The watcher never owns application storage itself.
type ApplicationSource interface {
	SentApplications(ctx context.Context) ([]TrackedApplication, error)
}

// ReplyHandler is notified of each newly observed reply, after
// classification, so the caller can update Application state.
type ReplyHandler func(ctx context.Context, app TrackedApplication, msg models.MailboxMessage, isInterview bool)

// Watcher polls every tracked application's mailbox thread at a fixed
// interval. Safe to Start/Stop at most once per instance; both are
// idempotent.
type Watcher struct {
	interval time.Duration
	mailbox  MailboxProvider
	apps     ApplicationSource
	bus      *eventbus.Bus
	onReply  ReplyHandler

	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
}

func NewWatcher(interval time.Duration, mailbox MailboxProvider, apps ApplicationSource, bus *eventbus.Bus, onReply ReplyHandler) *Watcher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Watcher{interval: interval, mailbox: mailbox, apps: apps, bus: bus, onReply: onReply}
}

// Start launches the background polling loop. Calling Start on an
// already-running Watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.running.Store(true)

	go w.run(ctx)
	slog.Info("reply watcher started", "interval", w.interval)
}

// Running reports whether the polling loop is currently active, for the
// observability gmail-watcher endpoints.
func (w *Watcher) Running() bool {
	return w.running.Load()
}

// Stop signals the polling loop to exit and waits for it to finish.
// Calling Stop on a Watcher that was never started is a no-op.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.running.Store(false)
	slog.Info("reply watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	w.pollAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

func (w *Watcher) pollAll(ctx context.Context) {
	apps, err := w.apps.SentApplications(ctx)
	if err != nil {
		slog.Error("reply watcher: list sent applications failed", "error", err)
		return
	}

	for _, app := range apps {
		messages, err := w.mailbox.Poll(ctx, app.UserID, app.ThreadID)
		if err != nil {
			slog.Error("reply watcher: mailbox poll failed", "application_id", app.ApplicationID, "error", err)
			continue
		}
		for _, msg := range messages {
			isInterview := IsInterviewOffer(msg.Body)
			if w.bus != nil {
				w.bus.Emit(app.UserID, eventbus.WorkflowUpdate{ApplicationID: app.ApplicationID, Step: "reply_received"})
			}
			if w.onReply != nil {
				w.onReply(ctx, app, msg, isInterview)
			}
		}
	}
}
