package main

import (
	"log"

	"github.com/harane/toolshed/cmd"
	"github.com/harane/toolshed/config"
)

func main() {
	log.Printf("toolshed %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
