// internal/forms/contact.go
//
// Tenant contact-form submissions.
//
// Context
//   Every tenant site carries a contact form.  Submissions are validated,
//   persisted per tenant, and handed off to the mail relay.  The relay is
//   best-effort: a failed hand-off never loses the submission because the
//   row is written first.
//
//------------------------------------------------------------------------------

package forms

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned when the CSRF token is missing or stale.
var ErrInvalidToken = errors.New("forms: invalid csrf token")

// ContactSubmission is one validated contact-form payload.
type ContactSubmission struct {
	ID        string    `db:"id"`
	TenantID  uint64    `db:"tenant_id"`
	Name      string    `db:"name"  validate:"required,max=120"`
	Email     string    `db:"email" validate:"required,email,max=254"`
	Phone     string    `db:"phone" validate:"omitempty,max=40"`
	Message   string    `db:"message" validate:"required,min=5,max=4000"`
	CreatedAt time.Time `db:"created_at"`
}

// ValidationError carries per-field messages back to the handler.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string { return "forms: validation failed" }

// IsValidationError reports whether err came from a failed payload check.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Relay hands a stored submission to an external delivery channel.
type Relay interface {
	Deliver(ctx context.Context, sub *ContactSubmission) error
}

// LogRelay is the default relay: it records the hand-off in the log and
// leaves actual delivery to an out-of-process worker reading the table.
type LogRelay struct{}

func (LogRelay) Deliver(_ context.Context, sub *ContactSubmission) error {
	zap.L().Info("contact submission queued for delivery",
		zap.String("submission_id", sub.ID),
		zap.Uint64("tenant_id", sub.TenantID),
		zap.String("email", sub.Email),
	)
	return nil
}

// Contact persists and relays contact submissions for one tenant site.
type Contact struct {
	db    *sqlx.DB
	relay Relay
}

// NewContact wires the store.  A nil relay falls back to LogRelay.
func NewContact(db *sqlx.DB, relay Relay) *Contact {
	if relay == nil {
		relay = LogRelay{}
	}
	return &Contact{db: db, relay: relay}
}

// HandleSubmit parses the POST body, verifies CSRF, validates the payload,
// stores it under tenantID, and relays it.  On bad input it returns
// ValidationError; on a bad token, ErrInvalidToken.
func (c *Contact) HandleSubmit(r *http.Request, tenantID uint64) (*ContactSubmission, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if !VerifyToken(r.PostForm.Get("csrf_token")) {
		return nil, ErrInvalidToken
	}

	sub := &ContactSubmission{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(r.PostForm.Get("name")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Phone:     strings.TrimSpace(r.PostForm.Get("phone")),
		Message:   strings.TrimSpace(r.PostForm.Get("message")),
		CreatedAt: time.Now().UTC(),
	}

	if err := validate.Struct(sub); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return nil, ValidationError{Fields: fields}
	}

	const q = `
INSERT INTO contact_submission
       (id, tenant_id, name, email, phone, message, created_at)
VALUES (:id, :tenant_id, :name, :email, :phone, :message, :created_at)`
	if _, err := c.db.NamedExecContext(r.Context(), q, sub); err != nil {
		return nil, err
	}

	if err := c.relay.Deliver(r.Context(), sub); err != nil {
		zap.L().Warn("contact relay hand-off failed",
			zap.String("submission_id", sub.ID), zap.Error(err))
	}
	return sub, nil
}
