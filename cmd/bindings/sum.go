package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func sumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sum <a> <b>",
		Short: "Call the binding's sum export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseInt32(args[0])
			if err != nil {
				return err
			}
			y, err := parseInt32(args[1])
			if err != nil {
				return err
			}

			b, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close(cmd.Context())

			n, err := b.Sum(cmd.Context(), x, y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func exportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "Load the binding and list what it exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprint(out, keyValues(
				kv("identifier", accent(b.Target().Identifier())),
				kv("source", string(b.Source())),
				kv("path", b.Path()),
				kv("backend", b.Backend()),
				kv("exports", strings.Join(b.Exports(), ", ")),
			))
			fmt.Fprintln(out, successMsg("capability contract satisfied"))
			return nil
		},
	}
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid int32 %q: %w", s, err)
	}
	return int32(n), nil
}
