package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BAZAR-APP/admin-panel/internal/catalog"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
	pkgkafka "github.com/BAZAR-APP/admin-panel/pkg/kafka"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
)

// Kafka topics for admin audit events.
var (
	TopicAuth    = pkgkafka.Topic("auth")
	TopicCatalog = pkgkafka.Topic("catalog")
)

// Event types.
const (
	TypeSignedIn       = "admin.auth.signed_in"
	TypeSignedUp       = "admin.auth.signed_up"
	TypeSignedOut      = "admin.auth.signed_out"
	TypeCatalogCreated = "admin.catalog.created"
	TypeCatalogUpdated = "admin.catalog.updated"
	TypeCatalogDeleted = "admin.catalog.deleted"
)

// SubjectTypeAdmin is the subject type of auth events.
const SubjectTypeAdmin = "admin"

// SourceAdminPanel identifies events originating from this service.
const SourceAdminPanel = "admin-panel"

const publishTimeout = 3 * time.Second

// AuthData is the payload of auth events.
type AuthData struct {
	UserID      string `json:"user_id,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// CatalogData is the payload of catalog events.
type CatalogData struct {
	Subject string `json:"subject"`
	ID      string `json:"id,omitempty"`
	Action  string `json:"action"`
}

// Publisher writes one event to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	p.Logger.InfoContext(ctx, "audit event",
		slog.String("topic", topic),
		slog.String("event_type", event.EventType),
		slog.String("subject_id", event.SubjectID),
	)
	return nil
}

// Producer turns session and catalog changes into audit events. Publish
// failures are logged and never reach the caller.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an audit producer over publisher.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// SignedIn records a completed sign-in.
func (p *Producer) SignedIn(ctx context.Context, user domain.User, provider string) {
	p.publishAuth(ctx, TypeSignedIn, user, provider)
}

// SignedUp records a completed sign-up.
func (p *Producer) SignedUp(ctx context.Context, user domain.User) {
	p.publishAuth(ctx, TypeSignedUp, user, "")
}

// SignedOut records a sign-out of a signed-in session.
func (p *Producer) SignedOut(ctx context.Context, user domain.User) {
	p.publishAuth(ctx, TypeSignedOut, user, "")
}

// Changed records a catalog mutation.
func (p *Producer) Changed(ctx context.Context, action catalog.Action, subject, id string) {
	var eventType string
	switch action {
	case catalog.ActionCreated:
		eventType = TypeCatalogCreated
	case catalog.ActionUpdated:
		eventType = TypeCatalogUpdated
	case catalog.ActionDeleted:
		eventType = TypeCatalogDeleted
	default:
		p.logger.WarnContext(ctx, "unknown catalog action", slog.String("action", string(action)))
		return
	}

	data := CatalogData{Subject: subject, ID: id, Action: string(action)}
	p.publish(ctx, TopicCatalog, eventType, id, subject, data)
}

func (p *Producer) publishAuth(ctx context.Context, eventType string, user domain.User, provider string) {
	data := AuthData{
		UserID:      user.Identifier(),
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Provider:    provider,
	}
	p.publish(ctx, TopicAuth, eventType, user.Identifier(), SubjectTypeAdmin, data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, subjectID, subjectType string, data any) {
	if err := p.send(ctx, topic, eventType, subjectID, subjectType, data); err != nil {
		p.logger.WarnContext(ctx, "audit event dropped",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func (p *Producer) send(ctx context.Context, topic, eventType, subjectID, subjectType string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, subjectID, subjectType, SourceAdminPanel, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithActor(logger.UserIDFromContext(ctx))
	if sid := logger.SessionIDFromContext(ctx); sid != "" {
		event.WithMetadata("session_id", sid)
	}

	// Sign-out audits run after the request may have been cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}
