package main

import "github.com/mindhaven/go-companion-core/internal/cmd"

func main() {
	cmd.Execute()
}
