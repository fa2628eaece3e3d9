package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters(t *testing.T) {
	t.Parallel()
	m := New()

	m.GoalCreated(models.CategoryFitness)
	m.GoalCreated(models.CategoryFitness)
	m.GoalCreated(models.CategoryCareer)
	m.TaskToggled(true)
	m.TaskToggled(false)
	m.TaskToggled(true)
	m.AchievementUnlocked(models.BadgeCompleted)

	if got := testutil.ToFloat64(m.goalsCreated.WithLabelValues("Fitness")); got != 2 {
		t.Errorf("Expected 2 Fitness goals, got %v", got)
	}
	if got := testutil.ToFloat64(m.goalsCreated.WithLabelValues("Career")); got != 1 {
		t.Errorf("Expected 1 Career goal, got %v", got)
	}
	if got := testutil.ToFloat64(m.taskToggles.WithLabelValues("true")); got != 2 {
		t.Errorf("Expected 2 completing toggles, got %v", got)
	}
	if got := testutil.ToFloat64(m.achievements.WithLabelValues("Completed")); got != 1 {
		t.Errorf("Expected 1 Completed badge, got %v", got)
	}
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	t.Parallel()
	m := New()

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/v1/goals/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/goals/"+id, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/goals/{id}", "404")); got != 3 {
		t.Errorf("Expected 3 requests on the route template, got %v", got)
	}
	if n := testutil.CollectAndCount(m.httpRequests); n != 1 {
		t.Errorf("Expected a single label set, got %d", n)
	}
}

func TestRouteTemplate_Unmatched(t *testing.T) {
	t.Parallel()

	if got := routeTemplate(httptest.NewRequest(http.MethodGet, "/x", nil)); got != "unmatched" {
		t.Errorf("Expected 'unmatched', got %q", got)
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()
	m := New()
	m.GoalCreated(models.CategoryPersonal)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`goaltracker_goals_created_total{category="Personal"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected scrape to contain %q", want)
		}
	}
}
