package main

import (
	"fmt"

	"github.com/beevik/a2core/internal/machine"
	"github.com/spf13/cobra"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var maxFrames int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot a machine profile and run it in an SDL2 window",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMachine(flags)
			if err != nil {
				return err
			}

			cpu := newCPUAdapter(m)

			pres, err := newPresentation(fmt.Sprintf("a2run - %s", m.ProfileName()))
			if err != nil {
				return err
			}
			defer pres.close()

			return runLoop(m, cpu, pres, maxFrames)
		},
	}
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "stop after this many frames (0 = run until the window is closed)")
	return cmd
}

// runLoop drives the machine one CPU step at a time, polling the
// window for input/quit events and presenting the video controller's
// framebuffer once per VBL-to-VBL cycle.
func runLoop(m *machine.Machine, cpu *cpuAdapter, pres *presentation, maxFrames int) error {
	frames := 0
	for !cpu.StopRequested() {
		pres.pollEvents(m.Keyboard, cpu)

		wasInVBL := m.Video.InVBL()
		if _, state := m.Step(cpu); state == machine.RunStateStopped {
			break
		}
		if !wasInVBL && m.Video.InVBL() {
			pres.present(m.Video.FrameBuffer())
			frames++
			if maxFrames > 0 && frames >= maxFrames {
				break
			}
		}
	}
	return nil
}
