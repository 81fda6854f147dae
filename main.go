package main

import "memcat/cmd"

func main() {
	cmd.Execute()
}
