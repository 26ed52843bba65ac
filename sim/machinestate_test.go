package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachineStateReserveAndRelease(t *testing.T) {
	env := simpleEnv()
	tbl := NewMachineStateTable(env)

	require.Equal(t, int64(4), tbl.FreeCPUs(0))
	tbl.Reserve(0, 1, 3)
	require.Equal(t, int64(1), tbl.FreeCPUs(0))
	require.Equal(t, []TaskID{1}, tbl.RunningTasks(0))

	tbl.Release(0, 1, 3)
	require.Equal(t, int64(4), tbl.FreeCPUs(0))
	require.Empty(t, tbl.RunningTasks(0))
}

func TestMachineStateReserveOverCapacityPanics(t *testing.T) {
	env := simpleEnv()
	tbl := NewMachineStateTable(env)
	require.Panics(t, func() { tbl.Reserve(1, 1, 99) })
}

func TestMachineStateAllIdle(t *testing.T) {
	env := simpleEnv()
	tbl := NewMachineStateTable(env)
	require.True(t, tbl.AllIdle())
	tbl.Reserve(0, 1, 1)
	require.False(t, tbl.AllIdle())
	tbl.Release(0, 1, 1)
	require.True(t, tbl.AllIdle())
}

func TestMachineStateUnknownMachinePanics(t *testing.T) {
	env := simpleEnv()
	tbl := NewMachineStateTable(env)
	require.Panics(t, func() { tbl.FreeCPUs(99) })
}
