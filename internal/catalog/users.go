package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/pkg/pagination"
)

func userPath(id string) string {
	return UsersPath + "/" + url.PathEscape(id)
}

// Users returns one page of the platform's user directory.
func (s *Service) Users(ctx context.Context, p pagination.Params) (domain.UserList, error) {
	endpoint := UsersPath + "?" + p.Values().Encode()
	data, err := s.lists.load(ctx, s.key(endpoint), func(ctx context.Context) ([]byte, error) {
		var raw json.RawMessage
		if err := s.api.Get(ctx, endpoint, &raw); err != nil {
			return nil, err
		}
		list, err := decodeUserList(raw, p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(list)
	})
	if err != nil {
		return domain.UserList{}, fmt.Errorf("list users: %w", err)
	}

	var list domain.UserList
	if err := json.Unmarshal(data, &list); err != nil {
		return domain.UserList{}, fmt.Errorf("decode cached users: %w", err)
	}
	return list, nil
}

// User fetches one user.
func (s *Service) User(ctx context.Context, id string) (domain.User, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, userPath(id), &raw); err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	var u domain.User
	if err := decodeOne(raw, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

// UpdateUser patches the editable fields of a user.
func (s *Service) UpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.api.Patch(ctx, userPath(id), in, &out); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	s.invalidateUsers(ctx)
	s.audit.Changed(ctx, ActionUpdated, "user", id)
	return out, nil
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, userPath(id)); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.invalidateUsers(ctx)
	s.audit.Changed(ctx, ActionDeleted, "user", id)
	return nil
}

// invalidateUsers drops every cached user page and detail.
func (s *Service) invalidateUsers(ctx context.Context) {
	s.lists.invalidatePrefix(ctx, s.key(UsersPath))
}

// decodeUserList accepts a bare array, {"data": [...], "total": n} or the
// {"users": [...], "total": n} shape.
func decodeUserList(raw json.RawMessage, p pagination.Params) (domain.UserList, error) {
	list := domain.UserList{Users: []domain.User{}, Page: p.Page, Limit: p.Limit}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return list, nil
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list.Users); err != nil {
			return list, fmt.Errorf("decode users: %w", err)
		}
		list.Total = len(list.Users)
		return list, nil
	}

	var body struct {
		Users []domain.User `json:"users"`
		Data  []domain.User `json:"data"`
		Total int           `json:"total"`
		Page  int           `json:"page"`
		Limit int           `json:"limit"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return list, fmt.Errorf("decode users: %w", err)
	}
	switch {
	case body.Users != nil:
		list.Users = body.Users
	case body.Data != nil:
		list.Users = body.Data
	}
	list.Total = body.Total
	if list.Total == 0 {
		list.Total = len(list.Users)
	}
	if body.Page > 0 {
		list.Page = body.Page
	}
	if body.Limit > 0 {
		list.Limit = body.Limit
	}
	return list, nil
}
