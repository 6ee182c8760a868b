package main

import "github.com/xvierd/somatic/cmd"

func main() {
	cmd.Execute()
}
