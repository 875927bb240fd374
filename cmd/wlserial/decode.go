package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/unkn0wn-root/wlserial"
	"github.com/unkn0wn-root/wlserial/codec"
)

func newDecodeCmd(a *app) *cobra.Command {
	var asStruct bool
	cmd := &cobra.Command{
		Use:   "decode <SERIAL>...",
		Short: "Decode serials to JSON records",
		Long: `Decode one or more TAG(base64) serials and print each as a JSON record.

Example:
  wlserial decode 'WL(BQAAAAA...)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			for _, s := range args {
				it, err := a.decodeText(cmd.Context(), s)
				if err != nil {
					return fmt.Errorf("decode %s: %w", s, err)
				}
				out, err := render(it, asStruct)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(out))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asStruct, "proto", false, "print the protobuf Struct form instead of the raw record")
	return cmd
}

func render(it *wlserial.Item, asStruct bool) ([]byte, error) {
	if !asStruct {
		return codec.JSON[*wlserial.Item]{Indent: "  "}.Encode(it)
	}
	s, err := wlserial.ToStruct(it)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true}.Marshal(s)
}
