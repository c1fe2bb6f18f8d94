package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// stubHandlers records which handler a request was routed to.
type stubHandlers struct {
	called string
}

func (s *stubHandlers) respond(c *fiber.Ctx, name string) error {
	s.called = name
	return c.JSON(fiber.Map{"handler": name, "id": c.Params("id")})
}

func (s *stubHandlers) Register(c *fiber.Ctx) error   { return s.respond(c, "register") }
func (s *stubHandlers) Login(c *fiber.Ctx) error      { return s.respond(c, "login") }
func (s *stubHandlers) CreateTask(c *fiber.Ctx) error { return s.respond(c, "create-task") }
func (s *stubHandlers) ListTasks(c *fiber.Ctx) error  { return s.respond(c, "list-tasks") }
func (s *stubHandlers) GetTask(c *fiber.Ctx) error    { return s.respond(c, "get-task") }
func (s *stubHandlers) UpdateTask(c *fiber.Ctx) error { return s.respond(c, "update-task") }
func (s *stubHandlers) DeleteTask(c *fiber.Ctx) error { return s.respond(c, "delete-task") }
func (s *stubHandlers) Statistics(c *fiber.Ctx) error { return s.respond(c, "statistics") }

func setupRouteTestApp(t *testing.T) (*fiber.App, *stubHandlers) {
	t.Helper()

	stub := &stubHandlers{}
	app := fiber.New()
	passthrough := func(c *fiber.Ctx) error { return c.Next() }
	registerRoutes(app, stub, passthrough)

	return app, stub
}

func TestRegisterRoutes_StatisticsPrecedesByID(t *testing.T) {
	app, stub := setupRouteTestApp(t)

	// The literal statistics segment must not be captured as a task id
	req := httptest.NewRequest("GET", "/tasks/statistics", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if stub.called != "statistics" {
		t.Errorf("routed to %q, want %q", stub.called, "statistics")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if strings.Contains(string(body), `"id":"statistics"`) {
		t.Errorf("statistics was captured as a task id: %s", body)
	}
}

func TestRegisterRoutes_ByIDStillMatches(t *testing.T) {
	app, stub := setupRouteTestApp(t)

	req := httptest.NewRequest("GET", "/tasks/task-42", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if stub.called != "get-task" {
		t.Errorf("routed to %q, want %q", stub.called, "get-task")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if !strings.Contains(string(body), `"id":"task-42"`) {
		t.Errorf("task id not captured: %s", body)
	}
}
