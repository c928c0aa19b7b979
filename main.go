package main

import "github.com/pders01/compsearch/cmd"

func main() {
	cmd.Execute()
}
