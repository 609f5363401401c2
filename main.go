package main

import "github.com/naka-gawa/top-repos/cmd"

func main() {
	cmd.Execute()
}
