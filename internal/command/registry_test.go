// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/cute-engineering/cutekit/pkg/args"
)

// recorder returns a handler that appends label to *calls.
func recorder(calls *[]string, label string) Handler {
	return func(context.Context, *args.Cursor) error {
		*calls = append(*calls, label)
		return nil
	}
}

func newTestRegistry(t *testing.T, calls *[]string) *Registry {
	t.Helper()

	r, err := NewRegistry(
		Command{Short: "r", Long: "run", Help: "Run the target", Run: recorder(calls, "run")},
		Command{Short: "b", Long: "build", Help: "Build the target", Run: recorder(calls, "build")},
		Command{Short: "I", Long: "init", Help: "Initialize a new project", Run: recorder(calls, "init")},
		Command{Long: "aardvark", Help: "No short name", Run: recorder(calls, "aardvark")},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestRegistryOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	r := newTestRegistry(t, &calls)

	var got []string
	for _, c := range r.Commands() {
		got = append(got, c.Long)
	}

	// Sorted by short name, long name when short is absent; byte order puts
	// upper case first.
	want := []string{"init", "aardvark", "build", "run"}
	if !slices.Equal(got, want) {
		t.Errorf("Commands() order = %v, want %v", got, want)
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		argv    []string
		want    string
		wantErr error
	}{
		{name: "long name", argv: []string{"build"}, want: "build"},
		{name: "short name", argv: []string{"r", "app"}, want: "run"},
		{name: "name after options", argv: []string{"--target=x", "I"}, want: "init"},
		{name: "no short name", argv: []string{"aardvark"}, want: "aardvark"},
		{name: "unknown", argv: []string{"deploy"}, wantErr: ErrUnknownCommand},
		{name: "case sensitive", argv: []string{"i"}, wantErr: ErrUnknownCommand},
		{name: "empty", argv: nil, wantErr: ErrUnspecifiedCommand},
		{name: "options only", argv: []string{"--verbose"}, wantErr: ErrUnspecifiedCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls []string
			r := newTestRegistry(t, &calls)

			err := r.Dispatch(context.Background(), args.Parse(tt.argv))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Dispatch() error = %v, want %v", err, tt.wantErr)
				}
				if len(calls) != 0 {
					t.Errorf("handlers ran on failed dispatch: %v", calls)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if !slices.Equal(calls, []string{tt.want}) {
				t.Errorf("handlers called = %v, want [%s]", calls, tt.want)
			}
		})
	}
}

func TestDispatchInvokesIffRegistered(t *testing.T) {
	t.Parallel()

	var calls []string
	r := newTestRegistry(t, &calls)

	registered := map[string]bool{}
	for _, c := range r.Commands() {
		registered[c.Long] = true
		if c.Short != "" {
			registered[c.Short] = true
		}
	}

	for _, name := range []string{"run", "r", "build", "b", "init", "I", "aardvark", "x", "bu", "RUN", "-", " "} {
		calls = calls[:0]
		err := r.Dispatch(context.Background(), args.Parse([]string{name}))

		if registered[name] {
			if err != nil || len(calls) != 1 {
				t.Errorf("Dispatch(%q) = %v, calls %v; want one handler call", name, err, calls)
			}
			continue
		}

		var unknown *UnknownCommandError
		if !errors.As(err, &unknown) || unknown.Name != name {
			t.Errorf("Dispatch(%q) error = %v, want UnknownCommandError naming it", name, err)
		}
		if len(calls) != 0 {
			t.Errorf("Dispatch(%q) ran %v", name, calls)
		}
	}
}

func TestDispatchPassesCursor(t *testing.T) {
	t.Parallel()

	var (
		gotTarget    string
		gotComponent string
	)
	r, err := NewRegistry(Command{
		Short: "b",
		Long:  "build",
		Run: func(_ context.Context, cur *args.Cursor) error {
			gotTarget = cur.ConsumeString("target", "host")
			gotComponent, _ = cur.ConsumeArg()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if err := r.Dispatch(context.Background(), args.Parse([]string{"b", "kernel", "--target=x86_64"})); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if gotTarget != "x86_64" || gotComponent != "kernel" {
		t.Errorf("handler saw target=%q component=%q", gotTarget, gotComponent)
	}
}

func TestDispatchReturnsHandlerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r, err := NewRegistry(Command{Long: "fail", Run: func(context.Context, *args.Cursor) error { return boom }})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if err := r.Dispatch(context.Background(), args.Parse([]string{"fail"})); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestPluginOrigin(t *testing.T) {
	t.Parallel()

	var calls []string
	r := newTestRegistry(t, &calls)

	for _, c := range r.Commands() {
		if c.IsPlugin() {
			t.Errorf("built-in %q reports plugin origin", c.Long)
		}
	}

	if err := r.Append(Command{Short: "a", Long: "hello", Help: "Say hello", Run: recorder(&calls, "hello")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	var order []string
	for _, c := range r.Commands() {
		order = append(order, c.Long)
		if c.Long == "hello" && !c.IsPlugin() {
			t.Error("appended command does not report plugin origin")
		}
		if c.Long != "hello" && c.IsPlugin() {
			t.Errorf("built-in %q flipped to plugin origin", c.Long)
		}
	}

	// "a" is a prefix of "aardvark" and sorts first.
	want := []string{"init", "hello", "aardvark", "build", "run"}
	if !slices.Equal(order, want) {
		t.Errorf("order after Append = %v, want %v", order, want)
	}

	if err := r.Dispatch(context.Background(), args.Parse([]string{"hello"})); err != nil {
		t.Fatalf("Dispatch(hello) error = %v", err)
	}
	if calls[len(calls)-1] != "hello" {
		t.Errorf("last call = %q, want hello", calls[len(calls)-1])
	}
}

func TestDuplicateFirstMatchWins(t *testing.T) {
	t.Parallel()

	var calls []string
	r, err := NewRegistry(Command{Short: "x", Long: "dup", Run: recorder(&calls, "builtin")})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	// Same sort key: the stable sort keeps the built-in first.
	if err := r.Append(Command{Short: "x", Long: "dup", Run: recorder(&calls, "plugin")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	// Sorts before "x" through its short name and shares the long name.
	if err := r.Append(Command{Short: "a", Long: "other", Run: recorder(&calls, "other")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := r.Append(Command{Short: "b", Long: "x", Run: recorder(&calls, "long-x")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (duplicates are kept)", r.Len())
	}

	if err := r.Dispatch(context.Background(), args.Parse([]string{"dup"})); err != nil {
		t.Fatalf("Dispatch(dup) error = %v", err)
	}
	// "x" matches the short name of "dup" and the long name of "long-x";
	// "long-x" sorts first (key "b" < "x").
	if err := r.Dispatch(context.Background(), args.Parse([]string{"x"})); err != nil {
		t.Fatalf("Dispatch(x) error = %v", err)
	}

	want := []string{"builtin", "long-x"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestInvalidCommand(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, *args.Cursor) error { return nil }

	tests := []struct {
		name string
		cmd  Command
	}{
		{name: "missing long name", cmd: Command{Short: "x", Run: noop}},
		{name: "short name too long", cmd: Command{Short: "xy", Long: "xy", Run: noop}},
		{name: "nil handler", cmd: Command{Long: "nil"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewRegistry(tt.cmd); !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("NewRegistry() error = %v, want ErrInvalidCommand", err)
			}

			r, err := NewRegistry()
			if err != nil {
				t.Fatalf("NewRegistry() error = %v", err)
			}
			if err := r.Append(tt.cmd); !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("Append() error = %v, want ErrInvalidCommand", err)
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d after rejected Append", r.Len())
			}
		})
	}
}

func TestMissingArgumentError(t *testing.T) {
	t.Parallel()

	err := NewMissingArgument("run", "component")
	if !errors.Is(err, ErrMissingArgument) {
		t.Errorf("errors.Is(%v, ErrMissingArgument) = false", err)
	}
	if got, want := err.Error(), "run: component not specified"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
