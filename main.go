package main

import "github.com/pombreda/soundforest/cmd"

func main() {
	cmd.Execute()
}
