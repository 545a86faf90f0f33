package main

import "github.com/xvierd/streak/cmd"

func main() {
	cmd.Execute()
}
