package supervisor

import (
	"github.com/bowjob/jobagent/pkg/models"
)

// continuationHistoryBound is the "bounded history, e.g. 10" named in
// SPEC_FULL.md §4.9 for scanning the most recent assistant metadata.
const continuationHistoryBound = 10

// Resume describes what a continuation turn should do next, derived from
// the session's most recent assistant metadata per the §4.9 table.
type Resume struct {
	ReplyText        string
	ApplicationID    string
	NeedsPickJob     bool
	GoToApproveCV    bool
	GoToApproveEmail bool
	OfferNextJob     bool
}

// ResumeFrom implements the §4.9 continuation table. explicitApproval is
// the caller's ExplicitApproval(text) result for the current turn.
func ResumeFrom(meta models.MessageMetadata, explicitApproval bool) Resume {
	if meta == nil {
		return Resume{ReplyText: "There's nothing pending to continue. What would you like to do next?"}
	}

	switch m := meta.(type) {
	case models.JobResultsMetadata:
		return Resume{ReplyText: "Which job would you like me to act on?", NeedsPickJob: true}

	case models.CVReviewMetadata:
		if explicitApproval {
			return Resume{ApplicationID: m.ApplicationID, GoToApproveCV: true}
		}
		return Resume{ApplicationID: m.ApplicationID, ReplyText: "Please explicitly approve the tailored CV before I continue (e.g. \"approve\")."}

	case models.EmailReviewMetadata:
		if explicitApproval {
			return Resume{ApplicationID: m.ApplicationID, GoToApproveEmail: true}
		}
		return Resume{ApplicationID: m.ApplicationID, ReplyText: "Please explicitly approve the draft email before I send it (e.g. \"send\")."}

	case models.ApplicationSentMetadata:
		return Resume{ApplicationID: m.ApplicationID, ReplyText: "Want me to suggest the next job to apply to?", OfferNextJob: true}

	default:
		return Resume{ReplyText: "What would you like to do next?"}
	}
}

// LastAssistantMetadata is the narrow view continuation logic needs of a
// session; satisfied by *sessionstore.Session.
type LastAssistantMetadata interface {
	LastAssistantMetadata(bound int) (models.MessageMetadata, bool)
}

// Continue resumes the pipeline from a session's most recent assistant
// metadata.
func Continue(session LastAssistantMetadata, text string) Resume {
	meta, _ := session.LastAssistantMetadata(continuationHistoryBound)
	return ResumeFrom(meta, ExplicitApproval(text))
}
