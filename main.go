package main

import (
	"os"

	"github.com/hanuman1123/interviewAIAgent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
