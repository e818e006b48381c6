package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopCommand struct {
	invalid bool
}

func (c noopCommand) Validate() error {
	if c.invalid {
		return errors.New("bad command")
	}
	return nil
}

func TestCommandBus_Send(t *testing.T) {
	cmdBus := NewCommandBus()

	var handled bool
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	})
	require.NoError(t, cmdBus.Register(noopCommand{}, handler))

	require.NoError(t, cmdBus.Send(context.Background(), noopCommand{}))
	assert.True(t, handled)
}

func TestCommandBus_Send_UnknownCommand(t *testing.T) {
	cmdBus := NewCommandBus()

	err := cmdBus.Send(context.Background(), noopCommand{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandlerNotFound))
}

func TestCommandBus_Send_ValidationFailure(t *testing.T) {
	cmdBus := NewCommandBus()
	require.NoError(t, cmdBus.Register(noopCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		t.Fatal("handler must not run for an invalid command")
		return nil
	})))

	err := cmdBus.Send(context.Background(), noopCommand{invalid: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCommandBus_Register_Duplicate(t *testing.T) {
	cmdBus := NewCommandBus()
	handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

	require.NoError(t, cmdBus.Register(noopCommand{}, handler))
	err := cmdBus.Register(noopCommand{}, handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}
