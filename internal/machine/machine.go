package machine

import (
	"log"

	"github.com/beevik/a2core/internal/bus"
	"github.com/beevik/a2core/internal/iopage"
	"github.com/beevik/a2core/internal/memory"
	"github.com/beevik/a2core/internal/romimage"
	"github.com/beevik/a2core/internal/scheduler"
	"github.com/beevik/a2core/internal/slots"
	"github.com/beevik/a2core/internal/switches"
)

// systemROM layout within the 16 KiB combined image: a 256-byte gap
// mirroring the I/O page, then the internal Cx overlay, the default
// expansion ROM, and the D0/EF RAM-card ROM packed into one image.
const (
	internalROMOffset = 0x0100
	internalROMLen    = 0x0700
	defaultExpOffset  = 0x0800
	defaultExpLen     = 0x0800
	mainROMLowOffset  = 0x1000
	mainROMLowLen     = 0x1000
	mainROMHighOffset = 0x2000
	mainROMHighLen    = 0x2000
)

// Machine wires together every component from spec.md §4: the bus
// fabric, the soft-switch controllers, the slot manager/composite I/O
// target, and the scheduler. It never imports a concrete CPU type; the
// caller supplies one satisfying the CPU interface and drives it with
// Step.
type Machine struct {
	Bus        *bus.Bus
	Dispatcher *iopage.Dispatcher
	Scheduler  *scheduler.Scheduler
	Slots      *slots.Manager

	LanguageCard *switches.LanguageCard
	Aux          *switches.Aux80Col
	Video        *switches.Video
	Character    *switches.Character
	Keyboard     *switches.Keyboard

	MainRAM      *memory.Block
	AuxRAM       *memory.Block
	LCRAM        *memory.Block
	SystemROM    *memory.Block
	CharacterROM []byte

	profile     *Profile
	logger      *log.Logger
	peripherals []Peripheral
}

// New constructs a fully wired Machine from profile and the two
// caller-supplied ROM images, whose lengths it checks with
// romimage.Validate: systemROM
// (16 KiB, covering the internal Cx overlay, default expansion ROM,
// and D0/EF RAM-card ROM) and characterROM (4 KiB, held for a video
// peripheral's scanline fetch, never bus-mapped, since real Apple IIe
// hardware doesn't expose character ROM to the CPU).
func New(profile *Profile, systemROM, characterROM []byte) (*Machine, error) {
	if err := romimage.Validate(romimage.SystemROM, systemROM); err != nil {
		return nil, err
	}
	if err := romimage.Validate(romimage.CharacterROM, characterROM); err != nil {
		return nil, err
	}

	mainRAM, err := memory.NewBlock("main-ram", 0x10000, 0)
	if err != nil {
		return nil, err
	}
	auxRAM, err := memory.NewBlock("aux-ram", 0x10000, 0)
	if err != nil {
		return nil, err
	}
	lcRAM, err := memory.NewBlock("language-card-ram", 0x4000, 0)
	if err != nil {
		return nil, err
	}
	romBlock, err := memory.NewBlock("system-rom", len(systemROM), 0)
	if err != nil {
		return nil, err
	}
	if err := romBlock.Load(0, systemROM); err != nil {
		return nil, err
	}

	internalROM, err := romBlock.Window(internalROMOffset, internalROMLen)
	if err != nil {
		return nil, err
	}
	defaultExpansion, err := romBlock.Window(defaultExpOffset, defaultExpLen)
	if err != nil {
		return nil, err
	}
	mainROMLow, err := romBlock.Window(mainROMLowOffset, mainROMLowLen)
	if err != nil {
		return nil, err
	}
	mainROMHigh, err := romBlock.Window(mainROMHighOffset, mainROMHighLen)
	if err != nil {
		return nil, err
	}

	b := bus.New(profile.FloatingBus)

	aux := switches.NewAux80Col(mainRAM.Data, auxRAM.Data, profile.FloatingBus)
	routerHID := b.RegisterHandler(aux.Router())
	if err := b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0x0000, Size: 0xC000,
		Target: bus.HandlerTarget(routerHID), RegionTag: "page-zero-composite",
	}); err != nil {
		return nil, err
	}

	if err := b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0xD000, Size: 0x1000,
		Target: bus.ROMTarget(mainROMLow), RegionTag: "main-rom-dx",
	}); err != nil {
		return nil, err
	}
	if err := b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0xE000, Size: 0x2000,
		Target: bus.ROMTarget(mainROMHigh), RegionTag: "main-rom-ef",
	}); err != nil {
		return nil, err
	}

	lc, err := switches.NewLanguageCard(b, lcRAM.Data, profile.FloatingBus)
	if err != nil {
		return nil, err
	}

	video := switches.NewVideo(aux, profile.FloatingBus)
	character := switches.NewCharacter()
	keyboard := switches.NewKeyboard()

	dispatcher := iopage.New(profile.FloatingBus)
	if err := aux.RegisterHandlers(dispatcher); err != nil {
		return nil, err
	}
	if err := video.RegisterHandlers(dispatcher); err != nil {
		return nil, err
	}
	if err := character.RegisterHandlers(dispatcher); err != nil {
		return nil, err
	}
	if err := keyboard.RegisterHandlers(dispatcher); err != nil {
		return nil, err
	}
	if err := lc.RegisterHandlers(dispatcher); err != nil {
		return nil, err
	}

	slotMgr := slots.NewManager()
	compositeIO, err := slots.NewCompositeIO(slotMgr, dispatcher, aux, internalROM, defaultExpansion, profile.FloatingBus)
	if err != nil {
		return nil, err
	}
	compositeHID := b.RegisterHandler(compositeIO)
	if err := b.SetBaseMapping(bus.Mapping{
		VirtualBase: 0xC000, Size: 0x1000,
		Target: bus.HandlerTarget(compositeHID), RegionTag: "composite-io",
	}); err != nil {
		return nil, err
	}

	m := &Machine{
		Bus:          b,
		Dispatcher:   dispatcher,
		Scheduler:    scheduler.New(),
		Slots:        slotMgr,
		LanguageCard: lc,
		Aux:          aux,
		Video:        video,
		Character:    character,
		Keyboard:     keyboard,
		MainRAM:      mainRAM,
		AuxRAM:       auxRAM,
		LCRAM:        lcRAM,
		SystemROM:    romBlock,
		CharacterROM: characterROM,
		profile:      profile,
		logger:       log.Default(),
	}
	m.Reset()
	return m, nil
}

// SetLogger overrides the destination for the machine's log messages:
// the reset PC and any peripheral that fails to reinitialize during
// Reset. Runtime memory-access faults are not logged. A nil logger
// disables logging entirely.
func (m *Machine) SetLogger(l *log.Logger) { m.logger = l }

// ProfileName returns the name of the profile this Machine was
// constructed from, for display purposes.
func (m *Machine) ProfileName() string { return m.profile.Name }

// RegisterPeripheral attaches p to the dispatcher and scheduler and
// keeps it for Reset/SoftSwitchStates fan-out.
func (m *Machine) RegisterPeripheral(p Peripheral) error {
	if err := p.RegisterHandlers(m.Dispatcher); err != nil {
		return err
	}
	if err := p.Initialize(m.Scheduler); err != nil {
		return err
	}
	m.peripherals = append(m.peripherals, p)
	return nil
}

// Reset returns every soft switch and the expansion-ROM latch to their
// power-on state, reinitializes the scheduler with the periodic
// VideoBlank event, and resets every registered peripheral. It does
// not touch the CPU: the outer loop reads ResetVector and sets the
// caller-supplied CPU's PC itself, per spec.md §6.
func (m *Machine) Reset() {
	m.Aux.Reset()
	m.Video.Reset()
	m.Character.Reset()
	m.Keyboard.Reset()
	m.LanguageCard.Reset()
	m.Slots.Reset()

	m.Scheduler = scheduler.New()
	m.scheduleVBL()

	for _, p := range m.peripherals {
		p.Reset()
		if err := p.Initialize(m.Scheduler); err != nil && m.logger != nil {
			m.logger.Printf("machine: reset: reinitializing peripheral %q: %v", p.Name(), err)
		}
	}

	if m.logger != nil {
		m.logger.Printf("machine: reset, PC=$%04X", m.ResetVector())
	}
}

// scheduleVBL registers the VideoBlank consumer and schedules the
// first enter-VBL event, alternating enter/exit forever.
func (m *Machine) scheduleVBL() {
	m.Scheduler.OnEvent(scheduler.VideoBlank, func(payload any, cycle uint64) {
		entering := payload.(bool)
		m.Video.SetVBL(entering)
		if entering {
			m.Scheduler.ScheduleAfter(m.profile.VBlankDuration, scheduler.VideoBlank, false)
		} else {
			delta := m.profile.CyclesPerFrame - m.profile.VBlankDuration
			m.Scheduler.ScheduleAfter(delta, scheduler.VideoBlank, true)
		}
	})
	delta := m.profile.CyclesPerFrame - m.profile.VBlankDuration
	m.Scheduler.ScheduleAfter(delta, scheduler.VideoBlank, true)
}

// ResetVector reads the 6502 reset vector at $FFFC/$FFFD through the
// bus, so a reset correctly observes whatever ROM overlay is active.
func (m *Machine) ResetVector() uint16 {
	return m.Bus.Read16(0xFFFC, bus.AccessContext{Intent: bus.IntentDataRead})
}

// Step drives one CPU instruction and advances the scheduler by the
// cycles it consumed, per spec.md §5's "advances the scheduler by that
// delta after the instruction completes."
func (m *Machine) Step(cpu CPU) (int, RunState) {
	cycles, state := cpu.Step()
	m.Scheduler.Advance(m.Scheduler.Cycle() + uint64(cycles))
	return cycles, state
}

// SoftSwitchStates aggregates introspection state from every built-in
// controller and every registered peripheral that implements
// Introspectable.
func (m *Machine) SoftSwitchStates() []SwitchState {
	var states []SwitchState
	states = append(states, m.LanguageCard.SoftSwitchStates()...)
	states = append(states, m.Aux.SoftSwitchStates()...)
	states = append(states, m.Video.SoftSwitchStates()...)
	states = append(states, m.Character.SoftSwitchStates()...)
	states = append(states, m.Keyboard.SoftSwitchStates()...)
	for _, p := range m.peripherals {
		if ip, ok := p.(Introspectable); ok {
			states = append(states, ip.SoftSwitchStates()...)
		}
	}
	return states
}
