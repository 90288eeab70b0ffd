package main

import "github.com/heliofetch/heliofetch/cmd"

func main() {
	cmd.Execute()
}
