package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/wlserial"
	"github.com/unkn0wn-root/wlserial/codec"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		seed  uint32
		level int
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a JSON record from stdin",
		Long: `Read one JSON record (as printed by decode) from stdin and print its serial.

Example:
  wlserial decode 'WL(...)' | wlserial encode --level 50`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			raw, err := io.ReadAll(a.in)
			if err != nil {
				return err
			}
			it, err := codec.JSON[wlserial.Item]{}.Decode(raw)
			if err != nil {
				return fmt.Errorf("read item: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				it.Seed = seed
			}
			if cmd.Flags().Changed("level") {
				it.SetLevel(level)
			}
			s, err := a.codec.EncodeText(&it, it.Seed)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, s)
			return nil
		}),
	}
	cmd.Flags().Uint32Var(&seed, "seed", 0, "encryption seed (default: the record's seed)")
	cmd.Flags().IntVar(&level, "level", 0, "set the item level")
	return cmd
}
