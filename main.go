package main

import "github.com/kvclabs/dkc/cmd"

func main() {
	cmd.Execute()
}
