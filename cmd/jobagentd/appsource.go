package main

import (
	"context"

	"github.com/bowjob/jobagent/pkg/api"
	"github.com/bowjob/jobagent/pkg/replywatcher"
)

// appSourceAdapter satisfies replywatcher.ApplicationSource over the
// process's in-memory AppStore. The domain has no separate mailbox-thread
// identifier (mail delivery is out of scope), so the application id
// doubles as its own thread id.
type appSourceAdapter struct {
	apps *api.AppStore
}

func (a appSourceAdapter) SentApplications(ctx context.Context) ([]replywatcher.TrackedApplication, error) {
	sent := a.apps.SentApplications(ctx)
	out := make([]replywatcher.TrackedApplication, 0, len(sent))
	for _, app := range sent {
		out = append(out, replywatcher.TrackedApplication{
			UserID:        app.UserID,
			ApplicationID: app.ID,
			ThreadID:      app.ID,
		})
	}
	return out, nil
}
