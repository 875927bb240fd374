package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/wlserial/symbols"
)

func newSymbolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Inspect and publish symbol datasets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "publish",
		Short: "Publish the dataset file to redis for the active mode",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Symbols == "" {
				return errors.New("publish needs a dataset file (--symbols)")
			}
			p, err := a.redis()
			if err != nil {
				return err
			}
			if p == nil {
				return errors.New("publish needs --redis-addr")
			}
			dc, err := a.cfg.DatasetCodec()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(a.cfg.Symbols)
			if err != nil {
				return err
			}
			ds, err := dc.Decode(raw)
			if err != nil {
				return fmt.Errorf("decode dataset: %w", err)
			}
			// validate before anyone else loads it
			if _, err := symbols.NewStatic(ds); err != nil {
				return err
			}
			ds.Mode = a.mode.String()
			if err := symbols.Publish(cmd.Context(), p, dc, ds); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "published %s\n", symbols.SnapshotKey(ds.Mode))
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <CATEGORY>",
		Short: "List a category's symbols with their wire indices",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			t, err := a.table(cmd.Context())
			if err != nil {
				return err
			}
			list := t.Symbols(args[0])
			if list == nil {
				return fmt.Errorf("unknown category %q", args[0])
			}
			for i, s := range list {
				fmt.Fprintf(a.out, "%d\t%s\n", i+1, s)
			}
			return nil
		}),
	})
	return cmd
}
