package replywatcher

import (
	"context"

	"github.com/bowjob/jobagent/pkg/models"
)

// StubMailboxProvider never finds new messages. It is the only
// MailboxProvider shipped here — a real inbox integration (Gmail, IMAP,
// etc.) is out of scope, matching original_source/agents/gmail_watcher.py's
// own stubbed Gmail API call.
type StubMailboxProvider struct{}

func (StubMailboxProvider) Poll(ctx context.Context, userID, threadID string) ([]models.MailboxMessage, error) {
	return nil, nil
}
