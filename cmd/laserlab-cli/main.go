package main

import "laserlab/cmd/laserlab-cli/cmd"

func main() {
	cmd.Execute()
}
