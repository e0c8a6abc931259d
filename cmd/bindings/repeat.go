package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/bindings"
)

func repeatCmd(a *app) *cobra.Command {
	var (
		count       int
		interval    time.Duration
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "repeat",
		Short: "Run the binding's JsRepeater and print each tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("count must not be negative")
			}

			b, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close(cmd.Context())

			var opts []bindings.RepeaterOption
			if interval > 0 {
				opts = append(opts, bindings.WithInterval(interval))
			}

			if interactive {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				return runInteractive(cmd, b, count, opts)
			}

			values := make(chan uint32)
			stop := make(chan struct{})
			r, err := b.NewRepeater(cmd.Context(), func(v uint32) {
				select {
				case values <- v:
				case <-stop:
				}
			}, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
		loop:
			for i := 0; count == 0 || i < count; i++ {
				select {
				case v := <-values:
					fmt.Fprintf(out, "%s %d\n", muted(fmt.Sprintf("tick %d:", i)), v)
				case <-r.Done():
					break loop
				case <-cmd.Context().Done():
					break loop
				}
			}

			close(stop)
			return r.Close()
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of ticks to print (0 runs until interrupted)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Tick interval (defaults to the configured interval)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Interactive mode with TUI")
	return cmd
}

func runInteractive(cmd *cobra.Command, b *bindings.Binding, count int, opts []bindings.RepeaterOption) error {
	m := newRepeatModel(b.Target().Identifier(), count)
	p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))

	r, err := b.NewRepeater(cmd.Context(), func(v uint32) {
		p.Send(tickMsg(v))
	}, opts...)
	if err != nil {
		return err
	}

	_, runErr := p.Run()
	if err := r.Close(); err != nil {
		return err
	}
	return runErr
}
