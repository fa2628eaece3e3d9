package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benvon/goaltracker/internal/goals"
	"github.com/benvon/goaltracker/internal/handlers"
	"github.com/benvon/goaltracker/internal/models"
	"github.com/benvon/goaltracker/internal/store"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	clock := goals.ClockFunc(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })
	s := store.New(goals.NewEngine(goals.WithClock(clock)))

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	handlers.RegisterCatalogRoutes(api)
	handlers.NewGoalHandler(s, zap.NewNop()).RegisterRoutes(api.PathPrefix("/goals").Subrouter())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c, err = New("https://goals.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://goals.example.com", c.baseURL)

	for _, bad := range []string{"ftp://goals.example.com", "http://", "://nope"} {
		_, err := New(bad)
		assert.Error(t, err, bad)
	}
}

func TestClient_GoalFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateGoal(ctx, handlers.CreateGoalRequest{
		Title:     "Learn Spanish",
		Category:  "Education",
		Timeframe: "1 Month",
		Tasks:     []string{"Lesson 1", "Lesson 2"},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Goal)
	assert.Equal(t, "Learn Spanish", created.Title)
	assert.Equal(t, models.GoalStateNotStarted, created.State)
	assert.Equal(t, 30, created.DaysLeft)

	got, err := c.GetGoal(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	toggled, err := c.ToggleTask(ctx, created.ID.String(), 0, true)
	require.NoError(t, err)
	assert.Equal(t, 50, toggled.Goal.Progress)
	assert.Empty(t, toggled.Unlocked)

	toggled, err = c.ToggleTask(ctx, created.ID.String(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, 100, toggled.Goal.Progress)
	require.Len(t, toggled.Unlocked, 1)
	assert.Equal(t, models.BadgeCompleted, toggled.Unlocked[0].Badge)

	list, err := c.ListGoals(ctx, "Education")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Education", list.Category)

	list, err = c.ListGoals(ctx, "Fitness")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	list, err = c.ListGoals(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryAll, list.Category)
	assert.Equal(t, 1, list.Total)
}

func TestClient_Errors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetGoal(ctx, "6f1c0b7e-7c55-4d8a-9d61-1f0c1b5e2a10")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = c.CreateGoal(ctx, handlers.CreateGoalRequest{Title: "", Category: "Education", Timeframe: "1 Month", Tasks: []string{"a"}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)

	created, err := c.CreateGoal(ctx, handlers.CreateGoalRequest{Title: "Run", Category: "Fitness", Timeframe: "1 Week", Tasks: []string{"5k"}})
	require.NoError(t, err)
	_, err = c.ToggleTask(ctx, created.ID.String(), 3, true)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)

	_, err = c.ListGoals(ctx, "Hobby")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Categories(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Type)
	assert.False(t, IsNotFound(err))
}

func TestClient_Catalog(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.Categories))

	timeframes, err := c.Timeframes(ctx)
	require.NoError(t, err)
	require.Len(t, timeframes, len(models.Timeframes))
	assert.Equal(t, 7, timeframes[0].Days)
}
