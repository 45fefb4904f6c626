package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"taskman/internal/service"
)

// RecordedRequest is one request received by FakeAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// FakeAPI is an httptest server speaking the remote task resource protocol
// under /todos. It is reset per test.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	nextID   int
	requests []RecordedRequest

	// FailStatus, when non-zero, makes every request fail with that status.
	FailStatus int

	// Malformed makes successful responses carry an invalid JSON body.
	Malformed bool
}

// NewFakeAPI starts a server seeded with tasks. It is closed on test cleanup.
func NewFakeAPI(t testing.TB, tasks ...service.Task) *FakeAPI {
	t.Helper()

	a := &FakeAPI{nextID: 1}
	for _, task := range tasks {
		a.tasks = append(a.tasks, task)
		if task.ID != nil && *task.ID >= a.nextID {
			a.nextID = *task.ID + 1
		}
	}

	r := mux.NewRouter()
	r.Use(a.record)
	r.HandleFunc("/todos", a.list).Methods(http.MethodGet)
	r.HandleFunc("/todos", a.create).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", a.get).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}", a.update).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id:[0-9]+}", a.remove).Methods(http.MethodDelete)

	a.Server = httptest.NewServer(r)
	t.Cleanup(a.Server.Close)
	return a
}

// URL returns the base endpoint of the task resource.
func (a *FakeAPI) URL() string {
	return a.Server.URL + "/todos"
}

// Requests returns the recorded requests in order.
func (a *FakeAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]RecordedRequest, len(a.requests))
	copy(result, a.requests)
	return result
}

// Tasks returns a copy of the stored tasks.
func (a *FakeAPI) Tasks() []service.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]service.Task, len(a.tasks))
	copy(result, a.tasks)
	return result
}

func (a *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fail := a.FailStatus
		a.mu.Unlock()

		if fail != 0 {
			http.Error(w, http.StatusText(fail), fail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *FakeAPI) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if a.Malformed {
		io.WriteString(w, "{not json")
		return
	}
	json.NewEncoder(w).Encode(v)
}

func (a *FakeAPI) indexOf(r *http.Request) (int, int) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for i, t := range a.tasks {
		if t.ID != nil && *t.ID == id {
			return id, i
		}
	}
	return id, -1
}

func (a *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tasks := make([]service.Task, len(a.tasks))
	copy(tasks, a.tasks)
	a.writeJSON(w, http.StatusOK, tasks)
}

func (a *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, i := a.indexOf(r)
	if i < 0 {
		a.writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	a.writeJSON(w, http.StatusOK, a.tasks[i])
}

func (a *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var task service.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	task.ID = service.IntPtr(a.nextID)
	a.nextID++
	a.tasks = append(a.tasks, task)
	a.writeJSON(w, http.StatusCreated, task)
}

func (a *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	var task service.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	id, i := a.indexOf(r)
	if i < 0 {
		a.writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	task.ID = service.IntPtr(id)
	a.tasks[i] = task
	a.writeJSON(w, http.StatusOK, task)
}

func (a *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, i := a.indexOf(r)
	if i < 0 {
		a.writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}
	a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
	a.writeJSON(w, http.StatusOK, map[string]any{})
}
