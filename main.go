package main

import "github.com/agentic-research/patternmine/cmd"

func main() {
	cmd.Execute()
}
