package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ChayimFriedman2/chalk/internal/config"
)

type versionInfo struct {
	Version   string `json:"version"`
	Format    string `json:"format"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show chalk version information",
	Run: func(cmd *cobra.Command, args []string) {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		info := versionInfo{
			Version:   config.Version,
			Format:    config.FormatConstraint,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting JSON: %v\n", err)
				return
			}
			fmt.Fprintln(out, string(output))
			return
		}
		fmt.Fprintf(out, "chalk %s\n", info.Version)
		fmt.Fprintf(out, "Suite format: %s\n", info.Format)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
