package machine

import "gopkg.in/yaml.v3"

// SlotAssignment pins a card's ROM image paths to a slot number. The
// core never reads these files itself (spec's "Configuration" boundary
// is outside its scope); cmd/a2run resolves the paths and hands the
// loaded byte slices to Manager.InstallCard, which checks their sizes.
type SlotAssignment struct {
	Slot             int    `yaml:"slot"`
	ROMPath          string `yaml:"rom_path"`
	ExpansionROMPath string `yaml:"expansion_rom_path,omitempty"`

	// DiskImagePath is optional and only meaningful for a disk
	// controller card. The core never reads or decodes it; cmd/a2run
	// sniffs the file with internal/diskimage before installing the
	// card, purely to fail fast and log what was found.
	DiskImagePath string `yaml:"disk_image_path,omitempty"`
}

// Profile is the declarative machine profile from spec.md §6's
// "Configuration" boundary: a name, timing constants, the floating-bus
// value, and slot assignments. It does not describe physical memory
// blocks, base regions, or motherboard devices; New allocates and maps
// those with a fixed layout. The core only ever consumes a parsed *Profile;
// reading and unmarshaling the YAML form happens here so the outer
// binary doesn't need its own copy of the schema, but the file I/O
// itself stays in cmd/a2run.
type Profile struct {
	Name string `yaml:"name"`

	// CyclesPerFrame and VBlankDuration drive the scheduler's periodic
	// VideoBlank event, in CPU cycles at the machine's nominal clock.
	CyclesPerFrame uint64 `yaml:"cycles_per_frame"`
	VBlankDuration uint64 `yaml:"vblank_duration"`

	// FloatingBus is the byte value reads fall back to when every
	// overlay and the base mapping decline an address (spec.md §9's
	// open question, pinned per profile rather than hardcoded).
	FloatingBus byte `yaml:"floating_bus"`

	Slots []SlotAssignment `yaml:"slots,omitempty"`
}

// DefaultProfile returns the power-on configuration for an
// unexpanded-beyond-80-column-card Apple IIe: NTSC timing, $FF
// floating bus, no slot cards.
func DefaultProfile() *Profile {
	return &Profile{
		Name:           "apple2e",
		CyclesPerFrame: 17030,
		VBlankDuration: 1000,
		FloatingBus:    0xFF,
	}
}

// ParseProfile unmarshals a YAML-encoded profile. Fields omitted in
// data retain DefaultProfile's values.
func ParseProfile(data []byte) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}
