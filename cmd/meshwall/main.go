package main

import "github.com/MeKo-Tech/meshwall/internal/cmd"

func main() {
	cmd.Execute()
}
