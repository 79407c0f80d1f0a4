package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/pkg/validator"
)

// Platform paths behind the dashboard screens.
const (
	ChaletsPath            = "/chalets"
	ChaletByIDPath         = "/chalets/readById/"
	RoomsPath              = "/chaletRoom"
	RoomsByChaletPath      = "/chaletRoom/readByChaletId/"
	SubscriptionsPath      = "/chaletSubscription"
	SubscriptionsByChalet  = "/chaletSubscription/readByChaletId/"
	CustomizationsPath     = "/customizations"
	CategoriesPath         = "/customizationCategory"
	CategoriesWithItemPath = "/customizationCategory/readAllCategoriesWithCustomizations"
	TiersPath              = "/tiers"
	UsersPath              = "/users"
)

// Action names a catalog mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Auditor is told about every successful mutation.
type Auditor interface {
	Changed(ctx context.Context, action Action, subject, id string)
}

type noopAuditor struct{}

func (noopAuditor) Changed(context.Context, Action, string, string) {}

// Service exposes the catalog screens to one session. scope keeps each
// session's cached lists apart, the way each browser held its own.
type Service struct {
	api    API
	lists  *Lists
	scope  string
	audit  Auditor
	logger *slog.Logger
}

// NewService binds api, which carries the session's bearer token, to the
// shared list cache.
func NewService(api API, lists *Lists, scope string, audit Auditor, logger *slog.Logger) *Service {
	if audit == nil {
		audit = noopAuditor{}
	}
	if scope == "" {
		scope = "shared"
	}
	return &Service{api: api, lists: lists, scope: scope, audit: audit, logger: logger}
}

func (s *Service) key(endpoint string) string {
	return s.scope + ":" + endpoint
}

func (s *Service) created(ctx context.Context, subject string, out json.RawMessage) {
	s.audit.Changed(ctx, ActionCreated, subject, idOf(out))
	s.logger.InfoContext(ctx, "catalog record created", slog.String("subject", subject))
}

// Items returns the collection for a simple item kind.
func (s *Service) Items(kind domain.ItemKind) *Collection[domain.Item] {
	return NewCollection[domain.Item](s, kind.Endpoint())
}

// CreateItem validates in for kind and posts it. Badges must carry both
// descriptions; the other kinds get the default icon.
func (s *Service) CreateItem(ctx context.Context, kind domain.ItemKind, in domain.CreateItemInput) (json.RawMessage, error) {
	var err error
	if kind.IsBadgeType() {
		err = validator.Validate(in.Badge())
	} else {
		err = validator.Validate(in)
	}
	if err != nil {
		return nil, err
	}

	out, err := s.Items(kind).Create(ctx, in.Payload(kind))
	if err != nil {
		return nil, err
	}
	s.created(ctx, string(kind), out)
	return out, nil
}

// Chalets returns the chalet collection.
func (s *Service) Chalets() *Collection[domain.Chalet] {
	return NewCollection[domain.Chalet](s, ChaletsPath)
}

// CreateChalet posts a new chalet.
func (s *Service) CreateChalet(ctx context.Context, in domain.ChaletInput) (json.RawMessage, error) {
	out, err := s.Chalets().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.created(ctx, "chalet", out)
	return out, nil
}

// Chalet fetches one chalet. The platform answers with either the chalet
// or a {"data": chalet} envelope.
func (s *Service) Chalet(ctx context.Context, id string) (domain.Chalet, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, ChaletByIDPath+url.PathEscape(id), &raw); err != nil {
		return domain.Chalet{}, fmt.Errorf("get chalet %s: %w", id, err)
	}
	var c domain.Chalet
	if err := decodeOne(raw, &c); err != nil {
		return domain.Chalet{}, fmt.Errorf("decode chalet %s: %w", id, err)
	}
	return c, nil
}

// Rooms returns the rooms of one chalet.
func (s *Service) Rooms(chaletID string) *Collection[domain.Room] {
	return NewCollection[domain.Room](s, RoomsByChaletPath+url.PathEscape(chaletID))
}

// CreateRoom posts a room for in.ChaletID and invalidates that chalet's
// room list.
func (s *Service) CreateRoom(ctx context.Context, in domain.RoomInput) (json.RawMessage, error) {
	out, err := s.Rooms(in.ChaletID).CreateAt(ctx, RoomsPath, in)
	if err != nil {
		return nil, err
	}
	s.created(ctx, "room", out)
	return out, nil
}

// Subscriptions returns the subscription plans of one chalet.
func (s *Service) Subscriptions(chaletID string) *Collection[json.RawMessage] {
	return NewCollection[json.RawMessage](s, SubscriptionsByChalet+url.PathEscape(chaletID))
}

// CreateSubscription posts a plan for in.ChaletID.
func (s *Service) CreateSubscription(ctx context.Context, in domain.SubscriptionInput) (json.RawMessage, error) {
	out, err := s.Subscriptions(in.ChaletID).CreateAt(ctx, SubscriptionsPath, in)
	if err != nil {
		return nil, err
	}
	s.created(ctx, "subscription", out)
	return out, nil
}

// Customizations returns the customization collection.
func (s *Service) Customizations() *Collection[domain.Customization] {
	return NewCollection[domain.Customization](s, CustomizationsPath)
}

// CreateCustomization posts a customization. The category listing embeds
// customizations, so it is invalidated too.
func (s *Service) CreateCustomization(ctx context.Context, in domain.CustomizationInput) (json.RawMessage, error) {
	out, err := s.Customizations().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Categories().Invalidate(ctx)
	s.created(ctx, "customization", out)
	return out, nil
}

// Categories returns the customization categories with their
// customizations.
func (s *Service) Categories() *Collection[domain.CustomizationCategory] {
	return NewCollection[domain.CustomizationCategory](s, CategoriesWithItemPath)
}

// CreateCategory posts a customization category.
func (s *Service) CreateCategory(ctx context.Context, in domain.CategoryInput) (json.RawMessage, error) {
	out, err := s.Categories().CreateAt(ctx, CategoriesPath, in)
	if err != nil {
		return nil, err
	}
	s.created(ctx, "customization_category", out)
	return out, nil
}

// Tiers returns the tier benefit collection.
func (s *Service) Tiers() *Collection[domain.TierBenefit] {
	return NewCollection[domain.TierBenefit](s, TiersPath)
}

// CreateTier posts a tier benefit.
func (s *Service) CreateTier(ctx context.Context, in domain.TierBenefitInput) (json.RawMessage, error) {
	out, err := s.Tiers().Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.created(ctx, "tier", out)
	return out, nil
}

func decodeOne(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		raw = envelope.Data
	}
	return json.Unmarshal(raw, dst)
}

// idOf digs the new record's ID out of a create response.
func idOf(raw json.RawMessage) string {
	var rec struct {
		ID   string `json:"id"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ""
	}
	if rec.ID != "" {
		return rec.ID
	}
	return rec.Data.ID
}
