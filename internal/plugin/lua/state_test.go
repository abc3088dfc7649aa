package lua

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
}

func TestStateUnsafeLibrariesAbsent(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	for _, name := range []string{"io", "os", "debug", "package", "require", "module", "dofile", "loadfile"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("global %s missing", name)
		}
	}
}

func TestStateRunRejectsModuleLoading(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	for _, script := range []string{
		`require("settings_override")`,
		`module("settings_override")`,
		`dofile("settings.lua")`,
	} {
		if err := state.Run(context.Background(), script); err == nil {
			t.Errorf("Run(%q) succeeded, want error", script)
		}
	}
}

func TestStatePrint(t *testing.T) {
	var out bytes.Buffer
	state, err := NewState(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if err := state.Run(context.Background(), `print("speed", 10, true)`); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.String(); got != "speed\t10\ttrue\n" {
		t.Errorf("output = %q", got)
	}
}

func TestStateRunSyntaxError(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if err := state.Run(context.Background(), `x = = 1`); err == nil {
		t.Error("Run() accepted invalid syntax")
	}
}

func TestStateRunTimeout(t *testing.T) {
	state, err := NewState(WithExecutionTimeout(50 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	err = state.Run(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("Run() error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable.
	if err := state.Run(context.Background(), `x = 1`); err != nil {
		t.Errorf("Run() after timeout error = %v", err)
	}
}

func TestStateRunCancelled(t *testing.T) {
	state, err := NewState(WithExecutionTimeout(0))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err = state.Run(ctx, `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want Canceled", err)
	}
}

func TestStateClosed(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	state.Close()
	state.Close()

	if err := state.Run(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Run() error = %v, want ErrStateClosed", err)
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if v := state.GetGlobal("x"); v != glua.LNil {
		t.Errorf("GetGlobal() on closed state = %v", v)
	}
}

func TestStateRegisterModule(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	state.RegisterModule("a.b.c", map[string]glua.LGFunction{
		"answer": func(L *glua.LState) int {
			L.Push(glua.LNumber(42))
			return 1
		},
	})
	state.RegisterModule("a.b.d", map[string]glua.LGFunction{})

	if err := state.DoString(`result = a.b.c.answer(); sibling = type(a.b.d)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := state.GetGlobal("result"); v.String() != "42" {
		t.Errorf("result = %v, want 42", v)
	}
	if v := state.GetGlobal("sibling"); !strings.EqualFold(v.String(), "table") {
		t.Errorf("sibling = %v, want table", v)
	}
}
