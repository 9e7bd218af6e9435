package machine

import (
	"testing"

	"github.com/beevik/a2core/internal/bus"
	"github.com/stretchr/testify/require"
)

func testSystemROM() []byte {
	rom := make([]byte, 16384)
	for i := range rom {
		rom[i] = 0xEA // filler, distinguishable from RAM's zero fill
	}
	// Reset vector at $FFFC/$FFFD -> offset (0xFFFC-0xC000) within rom.
	rom[0xFFFC-0xC000] = 0x00
	rom[0xFFFD-0xC000] = 0xD0
	return rom
}

func newTestMachine(t *testing.T) *Machine {
	m, err := New(DefaultProfile(), testSystemROM(), make([]byte, 4096))
	require.NoError(t, err)
	return m
}

func TestNewMachineRejectsBadROMSizes(t *testing.T) {
	_, err := New(DefaultProfile(), make([]byte, 100), make([]byte, 4096))
	require.Error(t, err)

	_, err = New(DefaultProfile(), testSystemROM(), make([]byte, 10))
	require.Error(t, err)
}

func TestResetVectorReadsROM(t *testing.T) {
	m := newTestMachine(t)
	require.Equal(t, uint16(0xD000), m.ResetVector())
}

// TestScenarioOneLanguageCardWarmup reproduces spec.md §8 scenario 1.
func TestScenarioOneLanguageCardWarmup(t *testing.T) {
	m := newTestMachine(t)
	ctx := bus.AccessContext{Intent: bus.IntentDataWrite}
	readCtx := bus.AccessContext{Intent: bus.IntentDataRead}

	m.Bus.Write8(0xD000, 0x11, ctx) // discarded: ROM still mapped
	m.Bus.Write8(0xD001, 0x22, ctx)
	require.NotEqual(t, byte(0x11), m.Bus.Read8(0xD000, readCtx))

	m.Bus.Read8(0xC083, readCtx)
	m.Bus.Read8(0xC083, readCtx) // R2 satisfied: write-enable true, bank2 selected
	require.True(t, m.LanguageCard.RAMWrite())
	require.True(t, m.LanguageCard.Bank2())

	m.Bus.Write8(0xD000, 0xAA, ctx)

	m.Bus.Read8(0xC080, readCtx) // bank2, read-enable, write-disable
	require.True(t, m.LanguageCard.Bank2())
	require.False(t, m.LanguageCard.RAMWrite())
	require.Equal(t, byte(0xAA), m.Bus.Read8(0xD000, readCtx))

	m.Bus.Read8(0xC088, readCtx) // bank1 now selected
	require.False(t, m.LanguageCard.Bank2())
	require.NotEqual(t, byte(0xAA), m.Bus.Read8(0xD000, readCtx))

	m.Bus.Read8(0xC08B, readCtx)
	m.Bus.Read8(0xC08B, readCtx) // R2 satisfied again, at bank 1's odd address: write-enable true
	require.True(t, m.LanguageCard.RAMWrite())

	m.Bus.Write8(0xD000, 0xBB, ctx)
	require.Equal(t, byte(0xBB), m.Bus.Read8(0xD000, readCtx))
}

func TestResetReinitializesScheduler(t *testing.T) {
	m := newTestMachine(t)
	m.Scheduler.Advance(5000)
	m.Reset()
	require.Equal(t, uint64(0), m.Scheduler.Cycle())
	require.Equal(t, 1, m.Scheduler.Pending())
}

func TestStepAdvancesSchedulerAndTriggersVBL(t *testing.T) {
	m := newTestMachine(t)
	cpu := &fakeCPU{cyclesPerStep: int(m.profile.CyclesPerFrame)}

	m.Step(cpu)

	require.False(t, m.Video.InVBL())
}

type fakeCPU struct {
	cyclesPerStep int
}

func (f *fakeCPU) Step() (int, RunState) { return f.cyclesPerStep, RunStateRunning }
func (f *fakeCPU) Halted() bool          { return false }
func (f *fakeCPU) StopRequested() bool   { return false }
