package main

import (
	"github.com/jobregv/interventionweb-whisper/cmd/transcribed/cmd"

	// Import engine backends to register them
	_ "github.com/jobregv/interventionweb-whisper/internal/app/engine/openai"
	_ "github.com/jobregv/interventionweb-whisper/internal/app/engine/whisper_server"
)

func main() {
	cmd.Execute()
}
