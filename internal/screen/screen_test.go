package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/classquiz/internal/flow"
)

func TestDispatchSingleTask(t *testing.T) {
	applied := false
	task := func(ctx context.Context) flow.Commit {
		return func() { applied = true }
	}

	cmd := Dispatch(context.Background(), nil, task)
	require.NotNil(t, cmd)

	msg, ok := cmd().(CommitMsg)
	require.True(t, ok, "a single task should yield its CommitMsg directly")
	msg.Commit()
	assert.True(t, applied)
}

func TestDispatchNothing(t *testing.T) {
	assert.Nil(t, Dispatch(context.Background()))
	assert.Nil(t, Dispatch(context.Background(), nil))
}
