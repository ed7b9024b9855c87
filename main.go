package main

import "github.com/Dream2Nightmare/brainbot/cmd"

func main() {
	cmd.Execute()
}
