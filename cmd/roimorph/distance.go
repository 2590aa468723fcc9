package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roimorph/pkg/config"
	"roimorph/pkg/distance"
	"roimorph/pkg/region"
)

func newDistanceCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "distance <mask-image>",
		Short: "Compute the physical distance-to-boundary map of a mask image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flagConfig)
			if err != nil {
				return err
			}

			bits, dims, err := loadMask(args[0], cfg.Mask.Threshold)
			if err != nil {
				return err
			}
			logger.Info("loaded mask", "path", args[0], "width", dims.X, "height", dims.Y)

			regions := region.Components(bits, dims, "roi")
			if len(regions) == 0 {
				return fmt.Errorf("mask %s has no foreground pixels", args[0])
			}
			logger.Debug("labeled connected components", "count", len(regions))

			tr, err := distance.NewTransform(dims, cfg.PixelSize())
			if err != nil {
				return err
			}

			rs := make([]region.Region, len(regions))
			for i, r := range regions {
				rs[i] = r
			}
			dist, err := tr.Compute(cmd.Context(), rs)
			if err != nil {
				return err
			}

			if err := saveDistanceImage(dist, output); err != nil {
				return err
			}
			logger.Info("wrote distance map", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "distance.png", "output image path")
	return cmd
}
