package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BAZAR-APP/admin-panel/internal/cache"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/pkg/pagination"
	"github.com/BAZAR-APP/admin-panel/pkg/validator"
)

type call struct {
	method string
	path   string
	body   any
}

// fakeAPI answers GETs from a path table and records every call.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []call
	getErr    error
	postErr   error
	gate      chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}}
}

func (f *fakeAPI) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(method string) call {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method {
			return f.calls[i]
		}
	}
	return call{}
}

func (f *fakeAPI) Get(ctx context.Context, path string, out any) error {
	f.record(call{method: "GET", path: path})
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.getErr != nil {
		return f.getErr
	}
	f.mu.Lock()
	body, ok := f.responses[path]
	f.mu.Unlock()
	if !ok {
		body = "[]"
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	f.record(call{method: "POST", path: path, body: body})
	if f.postErr != nil {
		return f.postErr
	}
	return json.Unmarshal([]byte(`{"id":"new-1"}`), out)
}

func (f *fakeAPI) Patch(_ context.Context, path string, body, out any) error {
	f.record(call{method: "PATCH", path: path, body: body})
	return json.Unmarshal([]byte(`{"ok":true}`), out)
}

func (f *fakeAPI) Delete(_ context.Context, path string) error {
	f.record(call{method: "DELETE", path: path})
	return nil
}

type change struct {
	action  Action
	subject string
	id      string
}

type recordingAuditor struct {
	mu      sync.Mutex
	changes []change
}

func (a *recordingAuditor) Changed(_ context.Context, action Action, subject, id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, change{action, subject, id})
}

type fixture struct {
	api     *fakeAPI
	backend *cache.Memory
	lists   *Lists
	audit   *recordingAuditor
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{api: newFakeAPI(), backend: cache.NewMemory(), audit: &recordingAuditor{}}
	f.lists = NewLists(f.backend, time.Minute, logger)
	f.svc = NewService(f.api, f.lists, "s1", f.audit, logger)
	return f
}

func TestNewLists_DefaultTTL(t *testing.T) {
	l := NewLists(cache.NewMemory(), 0, slog.Default())
	assert.Equal(t, DefaultDedupeInterval, l.ttl)
}

func TestCollection_ServesFromCacheWithinInterval(t *testing.T) {
	f := newFixture(t)
	f.api.responses["/amenity"] = `[{"id":"a1","title":"Pool"}]`
	ctx := context.Background()

	first, err := f.svc.Items(domain.ItemAmenity).List(ctx)
	require.NoError(t, err)
	second, err := f.svc.Items(domain.ItemAmenity).List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, "Pool", first[0].Title)
	assert.Equal(t, 1, f.api.count("GET", "/amenity"))
}

func TestCollection_RefetchesAfterCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := f.svc.Items(domain.ItemViewType)

	_, err := items.List(ctx)
	require.NoError(t, err)

	_, err = f.svc.CreateItem(ctx, domain.ItemViewType, domain.CreateItemInput{Name: "Sea", NameInArabic: "بحر"})
	require.NoError(t, err)

	_, err = items.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.count("GET", "/viewTypes"))
}

func TestCollection_CreateLeavesOtherEndpointsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Items(domain.ItemAmenity).List(ctx)
	require.NoError(t, err)
	_, err = f.svc.Tiers().Create(ctx, domain.TierBenefitInput{})
	require.NoError(t, err)
	_, err = f.svc.Items(domain.ItemAmenity).List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, f.api.count("GET", "/amenity"))
}

func TestCollection_ScopesCacheBySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := NewService(f.api, f.lists, "s2", nil, slog.Default())

	_, err := f.svc.Chalets().List(ctx)
	require.NoError(t, err)
	_, err = other.Chalets().List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, f.api.count("GET", ChaletsPath))
}

func TestCollection_ConcurrentMissesCollapse(t *testing.T) {
	f := newFixture(t)
	f.api.gate = make(chan struct{})
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Tiers().List(ctx)
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return f.api.count("GET", TiersPath) >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.api.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Less(t, f.api.count("GET", TiersPath), n)
}

func TestCollection_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	f := newFixture(t)
	f.api.gate = make(chan struct{})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.Tiers().List(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return f.api.count("GET", TiersPath) == 1 }, time.Second, time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := f.svc.Tiers().List(context.Background())
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.api.gate)
	require.NoError(t, <-secondErr)
	assert.Equal(t, 1, f.api.count("GET", TiersPath))

	_, err := f.svc.Tiers().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.count("GET", TiersPath))
}

func TestCollection_InvalidateDuringFetchDropsStaleResult(t *testing.T) {
	f := newFixture(t)
	f.api.gate = make(chan struct{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Tiers().List(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return f.api.count("GET", TiersPath) == 1 }, time.Second, time.Millisecond)

	f.svc.Tiers().Invalidate(ctx)
	close(f.api.gate)
	require.NoError(t, <-done)

	_, err := f.backend.Get(ctx, f.svc.key(TiersPath))
	assert.ErrorIs(t, err, cache.ErrMiss)

	_, err = f.svc.Tiers().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.count("GET", TiersPath))
}

func TestCollection_ListErrorIsNotCached(t *testing.T) {
	f := newFixture(t)
	f.api.getErr = errors.New("platform down")
	ctx := context.Background()

	_, err := f.svc.Customizations().List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list /customizations")

	f.api.getErr = nil
	_, err = f.svc.Customizations().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.api.count("GET", CustomizationsPath))
}

func TestCollection_CreateFailureKeepsCache(t *testing.T) {
	f := newFixture(t)
	f.api.postErr = errors.New("rejected")
	ctx := context.Background()

	_, err := f.svc.Tiers().List(ctx)
	require.NoError(t, err)
	_, err = f.svc.CreateTier(ctx, domain.TierBenefitInput{})
	require.Error(t, err)
	_, err = f.svc.Tiers().List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, f.api.count("GET", TiersPath))
	assert.Empty(t, f.audit.changes)
}

func TestCreateItem_NonBadgeGetsDefaultIcon(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.CreateItem(context.Background(), domain.ItemAmenity,
		domain.CreateItemInput{Name: "Pool", NameInArabic: "مسبح"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"new-1"}`, string(out))

	posted := f.api.last("POST")
	assert.Equal(t, "/amenity", posted.path)
	payload, ok := posted.body.(domain.ItemPayload)
	require.True(t, ok)
	assert.True(t, payload.HasCustomizedIcon)
	assert.Equal(t, domain.DefaultItemIcon, payload.IconPhotoID)
	assert.Equal(t, []change{{ActionCreated, "amenity", "new-1"}}, f.audit.changes)
}

func TestCreateItem_BadgeRequiresDescriptions(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateItem(context.Background(), domain.ItemBadge,
		domain.CreateItemInput{Name: "Top host", NameInArabic: "مضيف"})
	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "description")
	assert.Zero(t, f.api.count("POST", "/badges"))

	_, err = f.svc.CreateItem(context.Background(), domain.ItemBadge, domain.CreateItemInput{
		Name: "Top host", NameInArabic: "مضيف", Description: "Rated 5", DescriptionInArabic: "٥",
	})
	require.NoError(t, err)
	payload := f.api.last("POST").body.(domain.ItemPayload)
	assert.False(t, payload.HasCustomizedIcon)
	assert.Equal(t, "Rated 5", payload.Description)
}

func TestCreateRoom_InvalidatesChaletRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roomsPath := RoomsByChaletPath + "c-1"

	_, err := f.svc.Rooms("c-1").List(ctx)
	require.NoError(t, err)
	_, err = f.svc.CreateRoom(ctx, domain.RoomInput{Title: "Suite", ChaletID: "c-1"})
	require.NoError(t, err)
	_, err = f.svc.Rooms("c-1").List(ctx)
	require.NoError(t, err)

	assert.Equal(t, RoomsPath, f.api.last("POST").path)
	assert.Equal(t, 2, f.api.count("GET", roomsPath))
}

func TestCreateSubscription_InvalidatesChaletPlans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := SubscriptionsByChalet + "c-9"
	f.api.responses[path] = `{"data":[{"id":"p1"}]}`

	plans, err := f.svc.Subscriptions("c-9").List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.JSONEq(t, `{"id":"p1"}`, string(plans[0]))

	_, err = f.svc.CreateSubscription(ctx, domain.SubscriptionInput{ChaletID: "c-9"})
	require.NoError(t, err)
	_, err = f.svc.Subscriptions("c-9").List(ctx)
	require.NoError(t, err)

	assert.Equal(t, SubscriptionsPath, f.api.last("POST").path)
	assert.Equal(t, 2, f.api.count("GET", path))
}

func TestCreateCustomization_InvalidatesCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Categories().List(ctx)
	require.NoError(t, err)
	_, err = f.svc.CreateCustomization(ctx, domain.CustomizationInput{Title: "BBQ"})
	require.NoError(t, err)
	_, err = f.svc.Categories().List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, f.api.count("GET", CategoriesWithItemPath))
}

func TestCreateCategory_PostsToCategoryPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Categories().List(ctx)
	require.NoError(t, err)
	_, err = f.svc.CreateCategory(ctx, domain.CategoryInput{Title: "Food", TitleInArabic: "طعام"})
	require.NoError(t, err)
	_, err = f.svc.Categories().List(ctx)
	require.NoError(t, err)

	assert.Equal(t, CategoriesPath, f.api.last("POST").path)
	assert.Equal(t, 2, f.api.count("GET", CategoriesWithItemPath))
	assert.Equal(t, "customization_category", f.audit.changes[0].subject)
}

func TestChalet_DecodesEnvelope(t *testing.T) {
	f := newFixture(t)
	f.api.responses[ChaletByIDPath+"c-1"] = `{"data":{"id":"c-1","title":"Sea View","city":"Kuwait"}}`

	c, err := f.svc.Chalet(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Sea View", c.Title)
	assert.Equal(t, "Kuwait", c.City)
}

func TestChalet_DecodesBareObject(t *testing.T) {
	f := newFixture(t)
	f.api.responses[ChaletByIDPath+"c-2"] = `{"id":"c-2","title":"Desert Camp"}`

	c, err := f.svc.Chalet(context.Background(), "c-2")
	require.NoError(t, err)
	assert.Equal(t, "c-2", c.ID)
}

func TestUsers_PaginatesAndCaches(t *testing.T) {
	f := newFixture(t)
	p := pagination.Params{Page: 2, Limit: 10}
	path := UsersPath + "?" + url.Values{"limit": {"10"}, "page": {"2"}}.Encode()
	f.api.responses[path] = `{"users":[{"id":"u1","fullName":"Sara"}],"total":11}`
	ctx := context.Background()

	list, err := f.svc.Users(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 11, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 10, list.Limit)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Sara", list.Users[0].FullName)

	_, err = f.svc.Users(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.count("GET", path))
}

func TestUsers_UpdateAndDeleteInvalidatePages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := pagination.DefaultParams()
	path := UsersPath + "?" + p.Values().Encode()

	_, err := f.svc.Users(ctx, p)
	require.NoError(t, err)
	_, err = f.svc.UpdateUser(ctx, "u1", domain.UpdateUserInput{FullName: "Sara A", Email: "sara@example.com"})
	require.NoError(t, err)
	_, err = f.svc.Users(ctx, p)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteUser(ctx, "u1"))
	_, err = f.svc.Users(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, 3, f.api.count("GET", path))
	assert.Equal(t, 1, f.api.count("PATCH", "/users/u1"))
	assert.Equal(t, 1, f.api.count("DELETE", "/users/u1"))
	assert.Equal(t, []change{
		{ActionUpdated, "user", "u1"},
		{ActionDeleted, "user", "u1"},
	}, f.audit.changes)
}

func TestUser_Get(t *testing.T) {
	f := newFixture(t)
	f.api.responses["/users/u7"] = `{"id":"u7","email":"a@b.co","roles":["admin"]}`

	u, err := f.svc.User(context.Background(), "u7")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", u.Email)
	assert.Equal(t, []string{"admin"}, u.Roles)
}

func TestDecodeUserList(t *testing.T) {
	p := pagination.DefaultParams()
	tests := []struct {
		name  string
		raw   string
		total int
		users int
	}{
		{"bare array", `[{"id":"u1"},{"id":"u2"}]`, 2, 2},
		{"data envelope", `{"data":[{"id":"u1"}],"total":40}`, 40, 1},
		{"null", `null`, 0, 0},
		{"empty object", `{}`, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := decodeUserList(json.RawMessage(tc.raw), p)
			require.NoError(t, err)
			assert.Equal(t, tc.total, list.Total)
			assert.Len(t, list.Users, tc.users)
			assert.NotNil(t, list.Users)
		})
	}
}

func TestIDOf(t *testing.T) {
	assert.Equal(t, "x1", idOf(json.RawMessage(`{"id":"x1"}`)))
	assert.Equal(t, "x2", idOf(json.RawMessage(`{"data":{"id":"x2"}}`)))
	assert.Empty(t, idOf(json.RawMessage(`[1,2]`)))
	assert.Empty(t, idOf(nil))
}
