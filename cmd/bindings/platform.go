package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/bindings/loader"
	"github.com/wippyai/bindings/platform"
)

func platformCmd(a *app) *cobra.Command {
	var osName, arch string

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show how the host resolves to a platform target",
		RunE: func(cmd *cobra.Command, args []string) error {
			host := platform.Current()
			if a.host != nil {
				host = *a.host
			}
			if a.cfg.Loader.OS != "" {
				host.OS = a.cfg.Loader.OS
			}
			if a.cfg.Loader.Arch != "" {
				host.Arch = a.cfg.Loader.Arch
			}
			if osName != "" {
				host.OS = osName
			}
			if arch != "" {
				host.Arch = arch
			}

			probe := platform.NewLinkerProbe(a.fsys(), a.cfg.Loader.LinkerPath)
			target, err := platform.Resolve(host, probe)
			if err != nil {
				return err
			}

			machine, err := platform.KernelMachine()
			if err != nil {
				machine = "-"
			}

			c := loader.Candidates(a.cfg.Loader.Prefix, a.cfg.Loader.Extension, target)
			libc := "-"
			if platform.NeedsLibcProbe(host) {
				libc = string(target.ABI()) + " (" + a.cfg.Loader.LinkerPath + ")"
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, keyValues(
				kv("os", platform.NormalizeOS(host.OS)),
				kv("arch", platform.NormalizeArch(host.Arch)),
				kv("kernel", machine),
				kv("libc", libc),
				kv("identifier", accent(target.Identifier())),
				kv("local file", c.File),
				kv("package", c.Package),
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&osName, "os", "", "Resolve for this operating system instead of the host")
	cmd.Flags().StringVar(&arch, "arch", "", "Resolve for this architecture instead of the host")
	return cmd
}

func targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List every supported platform target",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, t := range platform.Targets() {
				abi := string(t.ABI())
				if abi == "" {
					abi = "-"
				}
				c := loader.Candidates(loader.DefaultPrefix, loader.DefaultExtension, t)
				rows = append(rows, []string{t.Identifier(), string(t.OS()), string(t.Arch()), abi, c.Package})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Identifier", "OS", "Arch", "ABI", "Package"}, rows))
			return nil
		},
	}
}
