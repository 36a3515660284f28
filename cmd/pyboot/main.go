package main

import "github.com/pyboot-project/pyboot/internal/cli"

func main() {
	cli.Execute()
}
