package main

import (
	"ivuturnos/internal/cli"
)

func main() {
	cli.Execute()
}
