package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/router"
)

func TestStartQuizPushesOverHome(t *testing.T) {
	m := newAppModel(context.Background(), Options{Gateway: api.NewMockGateway(), Start: StartQuiz})

	cmd := m.Init()
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Take a Test", push.Screen.Title())
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestSplashByDefault(t *testing.T) {
	m := newAppModel(context.Background(), Options{Gateway: api.NewMockGateway()})
	assert.Equal(t, "", m.router.Active().Title())

	m = newAppModel(context.Background(), Options{Gateway: api.NewMockGateway(), SkipSplash: true})
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestEscAtHomeIsNoop(t *testing.T) {
	m := newAppModel(context.Background(), Options{Gateway: api.NewMockGateway(), SkipSplash: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestHeaderStatus(t *testing.T) {
	m := newAppModel(context.Background(), Options{
		Gateway:    api.NewMockGateway(),
		SkipSplash: true,
		User:       "alice",
		Host:       "127.0.0.1:8000",
	})
	assert.Equal(t, "alice @ 127.0.0.1:8000", m.status)
}
