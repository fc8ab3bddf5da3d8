package main

import "github.com/gkassa/agentlab/cmd"

func main() {
	cmd.Execute()
}
