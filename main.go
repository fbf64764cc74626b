package main

import (
	"github.com/m4ce/sensu-plugins-disk-usage/cmd"
)

var (
	version   = "dev"
	gitCommit = ""
	buildTime = ""
)

func main() {
	cmd.SetVersion(version, gitCommit, buildTime)
	cmd.Execute()
}
