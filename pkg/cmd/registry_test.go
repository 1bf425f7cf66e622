package cmd_test

import (
	"context"
	"testing"

	"quranbot/pkg/cmd"
)

type testCommand struct {
	name string
	ran  int
}

func (c *testCommand) Name() string        { return c.name }
func (c *testCommand) Description() string { return "test command" }

func (c *testCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	c.ran++
	return nil
}

func TestRegistryRegisterGet(t *testing.T) {
	t.Parallel()

	r := cmd.NewRegistry()
	r.Register(&testCommand{name: "beta"})
	r.Register(&testCommand{name: "alpha"})

	if r.Get("alpha") == nil {
		t.Fatal("Get(alpha) = nil")
	}
	if r.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}

	all := r.GetAll()
	if len(all) != 2 || all[0].Name() != "alpha" || all[1].Name() != "beta" {
		t.Errorf("GetAll() not sorted by name: %v", []string{all[0].Name(), all[1].Name()})
	}
}

func TestWrapAndRoot(t *testing.T) {
	t.Parallel()

	inner := &testCommand{name: "inner"}
	order := []string{}

	outer := cmd.Apply(inner,
		func(c cmd.Command) cmd.Command {
			return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
				order = append(order, "first")
				return c.Run(ctx, inv)
			})
		},
		func(c cmd.Command) cmd.Command {
			return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
				order = append(order, "second")
				return c.Run(ctx, inv)
			})
		},
	)

	if outer.Name() != "inner" {
		t.Errorf("wrapped Name() = %q, want inner", outer.Name())
	}
	if err := outer.Run(context.Background(), &cmd.Invocation{}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if inner.ran != 1 {
		t.Errorf("inner ran %d times, want 1", inner.ran)
	}
	// The last applied middleware is outermost.
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("middleware order = %v, want [second first]", order)
	}
	if cmd.Root(outer) != inner {
		t.Error("Root() should unwrap to the inner command")
	}
}
