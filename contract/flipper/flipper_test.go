package flipper

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icook/tiny-flipper/contract"
	"github.com/icook/tiny-flipper/identity"
)

func TestDefault(t *testing.T) {
	env := contract.NewTestEnv()
	f := Default(env)
	assert.False(t, f.GetVal())
	assert.Equal(t, identity.Alice(), f.Owner())
}

func TestNew(t *testing.T) {
	for _, b := range []bool{true, false} {
		f := New(contract.NewTestEnv(), b)
		assert.Equal(t, b, f.GetVal())
	}
}

func TestFlip(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		env := contract.NewTestEnv()
		f := New(env, false)
		require.NoError(t, f.Flip(env))
		assert.True(t, f.GetVal())
		require.Len(t, env.Debug, 1)
		assert.Equal(t, `event="flip" value="true" contract="flipper"`, env.Debug[0])
	})

	t.Run("twice is identity", func(t *testing.T) {
		for _, b := range []bool{true, false} {
			env := contract.NewTestEnv()
			f := New(env, b)
			require.NoError(t, f.Flip(env))
			require.NoError(t, f.Flip(env))
			assert.Equal(t, b, f.GetVal())
		}
	})

	t.Run("not owner", func(t *testing.T) {
		env := contract.NewTestEnv()
		f := New(env, false)

		env.SetCaller(identity.Bob())
		for i := 0; i < 3; i++ {
			err := f.Flip(env)
			assert.Equal(t, OnlyOwnerCanFlip, err)
			assert.True(t, errors.Is(err, OnlyOwnerCanFlip))
			assert.False(t, f.GetVal())
		}
		assert.Empty(t, env.Debug)
		assert.Equal(t, identity.Alice(), f.Owner())
	})

	t.Run("owner after rejection", func(t *testing.T) {
		env := contract.NewTestEnv()
		f := New(env, true)
		env.SetCaller(identity.Bob())
		assert.Error(t, f.Flip(env))
		env.SetCaller(identity.Alice())
		require.NoError(t, f.Flip(env))
		assert.False(t, f.GetVal())
	})
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "OnlyOwnerCanFlip", OnlyOwnerCanFlip.Error())
	assert.Equal(t, "flipper error 7", Error(7).Error())
}
