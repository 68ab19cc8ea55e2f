package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addLaunch(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "launch ID",
		Short: "Start a tool.",
		Example: `
toolboardctl launch jobs
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			if err := ctl.Launch(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("launch %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "launched %s\n", args[0])
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addKill(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "kill ID",
		Short: "Stop a tool.",
		Example: `
toolboardctl kill jobs
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			if err := ctl.Kill(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("kill %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stopped %s\n", args[0])
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addAutoStart(topLevel *cobra.Command, e *env) {
	enable, disable := false, false
	cmd := &cobra.Command{
		Use:   "autostart ID",
		Short: "Turn starting a tool with the controller on or off.",
		Example: `
toolboardctl autostart jobs --enable
toolboardctl autostart jobs --disable
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			if err := ctl.SetAutoStart(cmd.Context(), args[0], enable); err != nil {
				return fmt.Errorf("autostart %s: %w", args[0], err)
			}
			state := "off"
			if enable {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autostart %s for %s\n", state, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "Start the tool with the controller.")
	cmd.Flags().BoolVar(&disable, "disable", false, "Do not start the tool with the controller.")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable")
	cmd.MarkFlagsOneRequired("enable", "disable")

	topLevel.AddCommand(cmd)
}

func addOpen(topLevel *cobra.Command, e *env) {
	printOnly := false
	cmd := &cobra.Command{
		Use:   "open ID",
		Short: "Open the full page of a tool in the browser.",
		Example: `
toolboardctl open jobs
toolboardctl open jobs --print
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			page := ctl.PageURL(args[0])
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), page)
				return nil
			}
			if err := e.opts.OpenURL(page); err != nil {
				return fmt.Errorf("open %s: %w", page, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the address instead of opening it.")

	topLevel.AddCommand(cmd)
}
