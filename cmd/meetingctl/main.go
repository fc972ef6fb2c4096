package main

import (
	"os"

	"meetings_app_go/cmd/meetingctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
