package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beevik/a2core/internal/diskimage"
	"github.com/beevik/a2core/internal/machine"
)

// loadMachine reads the profile and ROM files named by flags and
// constructs a fully wired Machine. Config-file reading happens here,
// in the outer binary, per spec.md §6's scoping of the "Configuration"
// boundary outside the core; the YAML itself is unmarshaled by
// machine.ParseProfile.
func loadMachine(flags *globalFlags) (*machine.Machine, error) {
	profile := machine.DefaultProfile()
	if flags.profilePath != "" {
		data, err := os.ReadFile(flags.profilePath)
		if err != nil {
			return nil, fmt.Errorf("reading profile: %w", err)
		}
		profile, err = machine.ParseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("parsing profile: %w", err)
		}
	}

	if flags.systemROM == "" || flags.charROM == "" {
		return nil, fmt.Errorf("both --system-rom and --character-rom are required")
	}

	systemROM, err := os.ReadFile(flags.systemROM)
	if err != nil {
		return nil, fmt.Errorf("reading system ROM: %w", err)
	}
	charROM, err := os.ReadFile(flags.charROM)
	if err != nil {
		return nil, fmt.Errorf("reading character ROM: %w", err)
	}

	m, err := machine.New(profile, systemROM, charROM)
	if err != nil {
		return nil, fmt.Errorf("constructing machine: %w", err)
	}

	for _, slot := range profile.Slots {
		rom, err := os.ReadFile(slot.ROMPath)
		if err != nil {
			return nil, fmt.Errorf("reading slot %d ROM: %w", slot.Slot, err)
		}
		var expansion []byte
		if slot.ExpansionROMPath != "" {
			expansion, err = os.ReadFile(slot.ExpansionROMPath)
			if err != nil {
				return nil, fmt.Errorf("reading slot %d expansion ROM: %w", slot.Slot, err)
			}
		}
		if slot.DiskImagePath != "" {
			if err := sniffDiskImage(slot.DiskImagePath); err != nil {
				return nil, fmt.Errorf("slot %d disk image: %w", slot.Slot, err)
			}
		}

		if err := m.Slots.InstallCard(slot.Slot, rom, expansion); err != nil {
			return nil, fmt.Errorf("installing slot %d card: %w", slot.Slot, err)
		}
	}

	return m, nil
}

// sniffDiskImage reads path and classifies it with internal/diskimage
// before the owning card is installed, so a garbled or unsupported
// image is rejected at load time rather than surfacing later as a
// confusing read fault from the card itself.
func sniffDiskImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading disk image: %w", err)
	}
	info, err := diskimage.Detect(path, data)
	if err != nil {
		return err
	}
	log.Printf("a2run: disk image %s: format=%s blocks=%d readonly=%v", path, info.Format, info.BlockCount, info.ReadOnly)
	return nil
}
