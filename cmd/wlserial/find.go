package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/wlserial"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "List the serials found in text on stdin",
		Long: `Scan stdin for TAG(...) serials and print one line per serial:
level, tier, name and the serial itself. Serials that fail to decode are
reported on stderr and skipped.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			text, err := io.ReadAll(a.in)
			if err != nil {
				return err
			}
			for _, s := range wlserial.FindSerials(string(text), a.mode) {
				it, err := a.decodeText(cmd.Context(), s)
				if err != nil {
					a.log.Warn("skipping serial", zap.String("serial", s), zap.Error(err))
					continue
				}
				fmt.Fprintf(a.out, "%d\t%s\t%s\t%s\n", it.Level, it.TierName(), it.Name, s)
			}
			return nil
		}),
	}
}
