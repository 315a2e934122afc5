package main

import "github.com/cmmoran/nestgen/cmd"

var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
