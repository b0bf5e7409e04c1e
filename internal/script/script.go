// Package script hosts user Lua hooks. A gesture binding whose action
// reads "lua:<function>" calls that function with a table describing the
// gesture; the function may return the name of a built-in action to run
// in its place.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Prefix marks an action as a Lua hook.
const Prefix = "lua:"

// ErrNoFunction is returned when a hook names an undefined function.
var ErrNoFunction = errors.New("script: function not defined")

// Context is the gesture information handed to a hook.
type Context struct {
	Gesture string
	Region  string
	Page    int
	Pages   int
}

// Logger is the logging surface the host needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Host owns a single Lua state. It is not safe for concurrent use; the
// event loop calls hooks synchronously during action execution.
type Host struct {
	state  *lua.LState
	logger Logger
}

// NewHost creates a Lua state with the standard libraries loaded.
func NewHost(logger Logger) *Host {
	return &Host{state: lua.NewState(), logger: logger}
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.state.Close()
}

// LoadString executes a chunk of Lua source, typically to define hook
// functions.
func (h *Host) LoadString(src string) error {
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// LoadDir executes every .lua file in dir in lexical order. A missing
// directory is not an error; a broken script is logged and skipped so
// one bad hook cannot take down the reader.
func (h *Host) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("script: read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := h.state.DoFile(path); err != nil {
			if h.logger != nil {
				h.logger.Warn("script %s skipped: %v", path, err)
			}
		}
	}
	return nil
}

// HookName extracts the function name from a "lua:" action, or "" when
// the action is not a Lua hook.
func HookName(action string) string {
	if !strings.HasPrefix(action, Prefix) {
		return ""
	}
	return strings.TrimPrefix(action, Prefix)
}

// Call invokes a hook function with the gesture context. The hook may
// return a string, which is handed back as a follow-up action name.
func (h *Host) Call(fn string, ctx Context) (string, error) {
	val := h.state.GetGlobal(fn)
	if val.Type() != lua.LTFunction {
		return "", fmt.Errorf("%w: %s", ErrNoFunction, fn)
	}

	tbl := h.state.NewTable()
	h.state.SetField(tbl, "gesture", lua.LString(ctx.Gesture))
	h.state.SetField(tbl, "region", lua.LString(ctx.Region))
	h.state.SetField(tbl, "page", lua.LNumber(ctx.Page))
	h.state.SetField(tbl, "pages", lua.LNumber(ctx.Pages))

	if err := h.state.CallByParam(lua.P{Fn: val, NRet: 1, Protect: true}, tbl); err != nil {
		return "", fmt.Errorf("script: %s: %w", fn, err)
	}

	ret := h.state.Get(-1)
	h.state.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}
