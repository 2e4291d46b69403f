package main

import (
	"slices"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect INPUT...",
		Short: "Print the shape and dtype of each input without computing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.prepare(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			loader, err := a.loader(ctx, args)
			if err != nil {
				return err
			}

			results := make([]result, 0, len(args))
			for _, uri := range args {
				in, err := loader.Load(ctx, uri)
				if err != nil {
					results = append(results, failed(uri, err))
					continue
				}
				mapped := in.Mapped
				results = append(results, result{
					Input:       uri,
					Shape:       slices.Clone(in.Array.Shape()),
					DType:       in.Array.DType().String(),
					Mapped:      &mapped,
					Format:      string(in.Location.Format),
					Compression: string(in.Location.Compression),
				})
				if err := in.Close(); err != nil {
					a.logger.Warn("close input", "input", uri, "error", err)
				}
			}
			return a.writeResults(cmd, results)
		},
	}
}
