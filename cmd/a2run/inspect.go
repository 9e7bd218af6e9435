package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Boot a machine profile and dump soft-switch state",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMachine(flags)
			if err != nil {
				return err
			}

			fmt.Printf("profile: %s\n", m.ProfileName())
			fmt.Printf("reset vector: $%04X\n", m.ResetVector())
			fmt.Println("soft switches:")
			for _, s := range m.SoftSwitchStates() {
				fmt.Printf("  %-10s $%04X = %v\n", s.Name, s.Address, s.Value)
			}
			return nil
		},
	}
	return cmd
}
