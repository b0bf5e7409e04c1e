package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHookName(t *testing.T) {
	if got := HookName("lua:on_corner"); got != "on_corner" {
		t.Errorf("HookName = %q, want on_corner", got)
	}
	if got := HookName("next-page"); got != "" {
		t.Errorf("HookName = %q, want empty for built-ins", got)
	}
}

func TestCallReceivesContext(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	err := h.LoadString(`
		function probe(ev)
			seen = ev.gesture .. "@" .. ev.region .. ":" .. ev.page
		end
	`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	if _, err := h.Call("probe", Context{Gesture: "tap", Region: "center", Page: 12}); err != nil {
		t.Fatalf("Call: %v", err)
	}

	if err := h.LoadString(`assert(seen == "tap@center:12", seen)`); err != nil {
		t.Errorf("hook saw wrong context: %v", err)
	}
}

func TestCallReturnsFollowupAction(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	if err := h.LoadString(`
		function skim(ev)
			if ev.page < ev.pages - 1 then
				return "next-page"
			end
		end
	`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	action, err := h.Call("skim", Context{Page: 3, Pages: 100})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if action != "next-page" {
		t.Errorf("action = %q, want next-page", action)
	}

	action, err = h.Call("skim", Context{Page: 99, Pages: 100})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if action != "" {
		t.Errorf("action = %q, want none at the last page", action)
	}
}

func TestCallUndefinedFunction(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	if _, err := h.Call("nope", Context{}); !errors.Is(err, ErrNoFunction) {
		t.Errorf("err = %v, want ErrNoFunction", err)
	}
}

func TestCallPropagatesLuaErrors(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	if err := h.LoadString(`function boom(ev) error("bad hook") end`); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if _, err := h.Call("boom", Context{}); err == nil {
		t.Error("expected error from failing hook")
	}
}

type warnRecorder struct{ warned int }

func (w *warnRecorder) Warn(string, ...any) { w.warned++ }

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("10-good.lua", `function from_file(ev) return "toggle-bars" end`)
	write("20-broken.lua", `this is not lua`)
	write("notes.txt", `ignored`)

	logger := &warnRecorder{}
	h := NewHost(logger)
	defer h.Close()

	if err := h.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if logger.warned != 1 {
		t.Errorf("warnings = %d, want 1 for the broken script", logger.warned)
	}

	action, err := h.Call("from_file", Context{})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if action != "toggle-bars" {
		t.Errorf("action = %q, want toggle-bars", action)
	}
}

func TestLoadDirMissing(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	if err := h.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("missing dir should not error: %v", err)
	}
}
