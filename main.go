package main

import "github.com/snag-dl/snag/cmd"

func main() {
	cmd.Execute()
}
