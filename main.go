package main

import "github.com/schematic-io/schematic/cmd"

func main() {
	cmd.Execute()
}
