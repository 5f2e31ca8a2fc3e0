package main

import "replay-scheduler/cmd"

func main() {
	cmd.Execute()
}
