package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jobregv/interventionweb-whisper/cmd/transcribed/cmd/serve"
	"github.com/jobregv/interventionweb-whisper/cmd/transcribed/cmd/version"
	"github.com/jobregv/interventionweb-whisper/cmd/transcribed/cmd/work"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcribed",
	Short: "Asynchronous audio transcription service",
	Long: `Asynchronous audio transcription service.
- Audio is submitted over HTTP and queued in Redis
- A worker pool transcribes jobs and stores results with a TTL
- Completed and failed jobs are optionally reported to a callback URL`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(work.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
