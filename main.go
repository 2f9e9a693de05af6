package main

import "github.com/julien-sobczak/nt-export/cmd"

func main() {
	cmd.Execute()
}
