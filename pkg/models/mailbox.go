package models

import "time"

// MailboxMessage is a single message observed in a user's mailbox thread,
// the unit the Reply Watcher (C8) polls for (SPEC_FULL.md §3.1).
type MailboxMessage struct {
	ThreadID   string
	From       string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Query is the parsed search intent the job search aggregator's query
// parser (§4.4 step 1) produces from free text.
type Query struct {
	Title       string
	Location    string
	CountryCode string
	Limit       int
}
