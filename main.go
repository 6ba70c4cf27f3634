package main

import "github.com/theirongolddev/holdcalc/cmd"

func main() {
	cmd.Execute()
}
