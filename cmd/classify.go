package main

import (
	"encoding/json"
	"fmt"

	"cast-receiver/internal/device"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the receiver from its codec capabilities",
	Long: `Classify the receiver into a device class. Capabilities come from the
"capabilities" config key, or from repeated --capability mime=codec flags
which replace the configured list.`,
	RunE: runClassifyCommand,
}

var (
	capabilityFlags []string
	classifyJSON    bool
)

func init() {
	classifyCmd.Flags().StringArrayVar(&capabilityFlags, "capability", nil, "supported mime=codec pair, repeatable (e.g. video/webm=vp9)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the result as JSON")

	rootCmd.AddCommand(classifyCmd)
}

type classifyResult struct {
	Class   device.Class         `json:"class"`
	Profile device.StreamProfile `json:"profile"`
}

func runClassifyCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	caps := cfg.DeviceCapabilities()
	if len(capabilityFlags) > 0 {
		caps, err = device.ParseCapabilities(capabilityFlags)
		if err != nil {
			return err
		}
	}

	class := device.Classify(device.NewStaticOracle(caps...))
	logger.WithField("capabilities", len(caps)).Debug("Classified device")

	result := classifyResult{Class: class, Profile: device.ProfileFor(class)}
	if classifyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Device class: %s\n", result.Class)
	if result.Profile.VideoEnabled {
		fmt.Fprintf(cmd.OutOrStdout(), "Video: %s up to %dp%d (HDR: %t)\n",
			result.Profile.VideoCodec, result.Profile.MaxHeight, result.Profile.MaxFrameRate, result.Profile.HDR)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Video: disabled (audio only)")
	}
	return nil
}
