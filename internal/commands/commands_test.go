package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/testutil"
)

var errBoom = errors.New("boom")

func testConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, svc, testConfig(t, quiet), args)
}

func runWithConfig(t *testing.T, cmd commands.Command, svc *testutil.FakeService, cfg *config.Config, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	ctx := context.Background()
	if svc == nil {
		code = cmd.Run(ctx, cfg, nil, args, &outBuf, &errBuf)
	} else {
		code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	}
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "buy milk", false)
	svc.AddTask(2, "walk dog", true)
	svc.AddTask(3, "Milk the cow", false)
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskman 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestRegistry_Aliases(t *testing.T) {
	tests := map[string]string{
		"ls":     "list",
		"get":    "show",
		"create": "add",
		"update": "edit",
		"delete": "rm",
		"tui":    "ui",
		"done":   "done",
	}
	for alias, want := range tests {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("%s: not found", alias)
			continue
		}
		if cmd.Name() != want {
			t.Errorf("%s: expected %s, got %s", alias, want, cmd.Name())
		}
	}
}

func TestRegistry_RejectsCollisions(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
}

// Tests for list command
func TestListCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  [ ] buy milk\n   2  [x] walk dog\n   3  [ ] Milk the cow\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Search(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetSearch("MILK")

	stdout, _, code := runCommand(t, cmd, seeded(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] buy milk\n   3  [ ] Milk the cow\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_CapsAtTwenty(t *testing.T) {
	svc := testutil.NewFakeService()
	for i := 1; i <= 30; i++ {
		svc.AddTask(i, fmt.Sprintf("task %d", i), false)
	}

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	if lines[19] != "  20  [ ] task 20" {
		t.Errorf("unexpected last line %q", lines[19])
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, seeded(), []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_LoadErrorStrict(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errBoom

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: failed to load tasks: load tasks: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_LoadErrorFast(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errBoom

	cfg := testConfig(t, false)
	cfg.Settings.Variant = config.VariantFast
	_, stderr, code := runWithConfig(t, &commands.ListCmd{}, svc, cfg, nil)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if strings.HasPrefix(stderr, "error:") {
		t.Errorf("fast variant should not surface a message, got %q", stderr)
	}
	if !strings.Contains(stderr, "level=ERROR") || !strings.Contains(stderr, "failed to load tasks") {
		t.Errorf("expected console diagnostic, got %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, seeded(), []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "id:        2\ntitle:     walk dog\ncompleted: true\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestShowCommand_BadArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"missing", nil, "error: task id required\n"},
		{"not a number", []string{"abc"}, "error: invalid task id: abc\n"},
		{"zero", []string{"0"}, "error: invalid task id: 0\n"},
		{"extra", []string{"1", "2"}, "error: unexpected argument: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded()
			_, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
			if n := len(svc.Calls()); n != 0 {
				t.Errorf("expected no service calls, got %d", n)
			}
		})
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, seeded(), []string{"99"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stderr != "error: backend error: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := seeded()
	cmd := &commands.AddCmd{}
	cmd.SetCompleted(true)

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"call", "mom"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	calls := svc.Calls()
	last := calls[len(calls)-1]
	if last.Method != "CreateTask" {
		t.Fatalf("expected CreateTask, got %s", last.Method)
	}
	if last.Task.Title != "call mom" || !last.Task.Completed || last.Task.HasID() {
		t.Errorf("unexpected create payload %+v", last.Task)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, seeded(), []string{"call mom"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestAddCommand_TitleRequired(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.CallCount("CreateTask"); n != 0 {
		t.Errorf("expected no create, got %d", n)
	}
}

func TestAddCommand_ShortTitle(t *testing.T) {
	t.Run("strict rejects", func(t *testing.T) {
		svc := seeded()
		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"ab"}, false)

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stderr != "error: title must be at least 3 characters\n" {
			t.Errorf("unexpected stderr %q", stderr)
		}
		if n := svc.CallCount("CreateTask"); n != 0 {
			t.Errorf("expected no create, got %d", n)
		}
	})

	t.Run("override length", func(t *testing.T) {
		svc := seeded()
		cfg := testConfig(t, false)
		cfg.Settings.MinTitleLength = 10
		_, stderr, code := runWithConfig(t, &commands.AddCmd{}, svc, cfg, []string{"call mom"})

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stderr != "error: title must be at least 10 characters\n" {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})

	t.Run("strict rejects blank", func(t *testing.T) {
		svc := seeded()
		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  "}, false)

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stderr != "error: title must be at least 3 characters\n" {
			t.Errorf("unexpected stderr %q", stderr)
		}
		if n := svc.CallCount("CreateTask"); n != 0 {
			t.Errorf("expected no create, got %d", n)
		}
	})

	t.Run("fast accepts blank", func(t *testing.T) {
		svc := seeded()
		cfg := testConfig(t, false)
		cfg.Settings.Variant = config.VariantFast
		stdout, stderr, code := runWithConfig(t, &commands.AddCmd{}, svc, cfg, []string{"  "})

		if code != exitcode.Success {
			t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
		}
		if stdout != "ok\n" {
			t.Errorf("expected 'ok', got %q", stdout)
		}
		calls := svc.Calls()
		if last := calls[len(calls)-1]; last.Method != "CreateTask" || last.Task.Title != "  " {
			t.Errorf("expected blank title to be created as given, got %+v", last)
		}
	})

	t.Run("fast accepts", func(t *testing.T) {
		svc := seeded()
		cfg := testConfig(t, false)
		cfg.Settings.Variant = config.VariantFast
		_, _, code := runWithConfig(t, &commands.AddCmd{}, svc, cfg, []string{"a"})

		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
		if n := svc.CallCount("CreateTask"); n != 1 {
			t.Errorf("expected 1 create, got %d", n)
		}
	})
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := seeded()
	svc.CreateTaskErr = errBoom

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"call mom"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: failed to create task: create task: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Title(t *testing.T) {
	svc := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetTitle("buy oat milk")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	task := svc.Tasks()[0]
	if task.Title != "buy oat milk" || task.Completed {
		t.Errorf("unexpected task after edit %+v", task)
	}
	if n := svc.CallCount("GetTask"); n != 1 {
		t.Errorf("expected exactly one fetch, got %d", n)
	}
}

func TestEditCommand_Completed(t *testing.T) {
	svc := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetCompleted(false)

	_, _, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	task := svc.Tasks()[1]
	if task.Completed || task.Title != "walk dog" {
		t.Errorf("unexpected task after edit %+v", task)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := seeded()
	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to change (use --title or --completed)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := len(svc.Calls()); n != 0 {
		t.Errorf("expected no service calls, got %d", n)
	}
}

func TestEditCommand_NotFound(t *testing.T) {
	svc := seeded()
	cmd := &commands.EditCmd{}
	cmd.SetTitle("anything")

	_, stderr, code := runCommand(t, cmd, svc, []string{"9"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stderr != "error: failed to load task: load task 9: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.CallCount("UpdateTask"); n != 0 {
		t.Errorf("expected no update, got %d", n)
	}
}

func TestEditCommand_UpdateError(t *testing.T) {
	svc := seeded()
	svc.UpdateTaskErr = errBoom
	cmd := &commands.EditCmd{}
	cmd.SetTitle("buy oat milk")

	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stderr != "error: failed to update task: update task 1: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	svc := seeded()

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"3"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	task := svc.Tasks()[2]
	if !task.Completed || task.Title != "Milk the cow" {
		t.Errorf("unexpected task after done %+v", task)
	}
}

// Tests for rm command
func TestRmCommand_Yes(t *testing.T) {
	svc := seeded()
	cmd := &commands.RmCmd{}
	cmd.SetYes(true)

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("expected no prompt, got %q", stderr)
	}
	if n := len(svc.Tasks()); n != 2 {
		t.Errorf("expected 2 tasks left, got %d", n)
	}
}

func TestRmCommand_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		stdout  string
		deletes int
	}{
		{"yes", "y\n", "ok\n", 1},
		{"full yes", "YES\n", "ok\n", 1},
		{"no", "n\n", "cancelled\n", 0},
		{"default", "\n", "cancelled\n", 0},
		{"eof", "", "cancelled\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seeded()
			cmd := &commands.RmCmd{}
			cmd.SetInput(strings.NewReader(tt.input))

			stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stdout != tt.stdout {
				t.Errorf("expected %q, got %q", tt.stdout, stdout)
			}
			if stderr != `Delete "buy milk"? [y/N] ` {
				t.Errorf("unexpected prompt %q", stderr)
			}
			if n := svc.CallCount("DeleteTask"); n != tt.deletes {
				t.Errorf("expected %d deletes, got %d", tt.deletes, n)
			}
		})
	}
}

func TestRmCommand_BeyondListCap(t *testing.T) {
	svc := testutil.NewFakeService()
	for i := 1; i <= 25; i++ {
		svc.AddTask(i, fmt.Sprintf("task %d", i), false)
	}
	cmd := &commands.RmCmd{}
	cmd.SetYes(true)

	_, _, code := runCommand(t, cmd, svc, []string{"25"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if n := svc.CallCount("GetTask"); n != 1 {
		t.Errorf("expected a direct fetch for a task beyond the cap, got %d", n)
	}
	if n := len(svc.Tasks()); n != 24 {
		t.Errorf("expected 24 tasks left, got %d", n)
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	cmd := &commands.RmCmd{}
	cmd.SetYes(true)

	_, stderr, code := runCommand(t, cmd, seeded(), []string{"42"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stderr != "error: backend error: not found\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_DeleteError(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = errBoom
	cmd := &commands.RmCmd{}
	cmd.SetYes(true)

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.TransportError {
		t.Errorf("expected exit code %d, got %d", exitcode.TransportError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: failed to delete task: delete task 1: boom\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := len(svc.Tasks()); n != 3 {
		t.Errorf("expected all tasks kept, got %d", n)
	}
}

// Tests for ui command
func TestUICommand_UnexpectedArg(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UICmd{}, seeded(), []string{"now"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: now\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestUICommand_BadRoute(t *testing.T) {
	tests := []struct {
		route  string
		stderr string
	}{
		{"/projects", "error: unknown route: /projects\n"},
		{"/tasks/edit/0", "error: invalid task id in route: 0\n"},
		{"/tasks/edit/abc", "error: invalid task id in route: abc\n"},
	}

	for _, tt := range tests {
		svc := seeded()
		cmd := &commands.UICmd{}
		cmd.SetRoute(tt.route)

		_, stderr, code := runCommand(t, cmd, svc, nil, false)

		if code != exitcode.UserError {
			t.Errorf("%s: expected exit code %d, got %d", tt.route, exitcode.UserError, code)
		}
		if stderr != tt.stderr {
			t.Errorf("%s: expected %q, got %q", tt.route, tt.stderr, stderr)
		}
		if n := len(svc.Calls()); n != 0 {
			t.Errorf("%s: expected no service calls, got %d", tt.route, n)
		}
	}
}
