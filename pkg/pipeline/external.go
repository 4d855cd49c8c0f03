package pipeline

import (
	"context"

	"github.com/bowjob/jobagent/pkg/models"
)

// PDFRenderer renders a tailored CV to a PDF. Injected so the controller
// stays testable without a real renderer.
type PDFRenderer interface {
	Render(ctx context.Context, cv models.TailoredCV) ([]byte, error)
}

// EmailSender delivers the composed email with the rendered CV attached.
// Implementations classify failures using apperr.Kind (KindAuthRevoked,
// KindTransient, KindPermanentConfig); anything else is treated as
// permanent_config, the safest category to surface to a user.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string, attachment []byte) error
}
