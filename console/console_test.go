package console

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icook/tiny-flipper/contract/flipper"
	"github.com/icook/tiny-flipper/engine"
	"github.com/icook/tiny-flipper/identity"
)

type fakeContract struct {
	snap    engine.Snapshot
	flipErr error
	descErr error
}

func (f *fakeContract) Flip(_ context.Context, _ identity.ContractID, caller identity.AccountID) (bool, error) {
	if f.flipErr != nil {
		return false, f.flipErr
	}
	if caller != f.snap.Owner {
		return false, flipper.OnlyOwnerCanFlip
	}
	f.snap.Value = !f.snap.Value
	return f.snap.Value, nil
}

func (f *fakeContract) Describe(context.Context, identity.ContractID) (engine.Snapshot, error) {
	return f.snap, f.descErr
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg into m and runs the returned command once, feeding its
// result back in.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(model)
			}
		}
	}
	return m
}

func loaded(t *testing.T, c Contract, caller identity.AccountID) model {
	t.Helper()
	m := newModel(context.Background(), c, identity.NewContractID(), caller)
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestConsoleFlip(t *testing.T) {
	c := &fakeContract{snap: engine.Snapshot{Owner: identity.Alice()}}
	m := loaded(t, c, identity.Alice())
	require.True(t, m.loaded)
	assert.Contains(t, m.View(), "false")
	assert.Contains(t, m.View(), ownerMarker)

	m = step(t, m, key(" "))
	assert.True(t, m.snap.Value)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "flipped to true")
}

func TestConsoleRejected(t *testing.T) {
	c := &fakeContract{snap: engine.Snapshot{Owner: identity.Alice(), Value: true}}
	m := loaded(t, c, identity.Bob())

	m = step(t, m, key("f"))
	assert.Equal(t, flipper.OnlyOwnerCanFlip, m.err)
	assert.True(t, m.snap.Value)
	assert.Contains(t, m.View(), "OnlyOwnerCanFlip")
	assert.NotContains(t, m.View(), ownerMarker)
}

func TestConsoleRefresh(t *testing.T) {
	c := &fakeContract{snap: engine.Snapshot{Owner: identity.Alice()}}
	m := loaded(t, c, identity.Alice())

	c.snap.Value = true
	m = step(t, m, key("r"))
	assert.True(t, m.snap.Value)
	assert.Empty(t, m.status)
}

func TestConsoleLoadError(t *testing.T) {
	c := &fakeContract{descErr: errors.New("contract not found")}
	m := newModel(context.Background(), c, identity.NewContractID(), identity.Alice())
	next, cmd := m.Update(m.Init()())
	m = next.(model)
	require.NotNil(t, cmd)
	assert.False(t, m.loaded)
	assert.Contains(t, m.View(), "contract not found")

	// Flipping before anything loaded is ignored.
	next, cmd = m.Update(key(" "))
	assert.Nil(t, cmd)
	assert.Equal(t, m, next.(model))
}

func TestConsoleQuit(t *testing.T) {
	m := newModel(context.Background(), &fakeContract{}, identity.NewContractID(), identity.Alice())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
