package main

import (
	"os"

	"github.com/ngenohkevin/taskdeck-agent/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
