package main

import "github.com/OpenTraceLab/OpenTraceLPT/cmd/lptsniff/cmd"

func main() {
	cmd.Execute()
}
