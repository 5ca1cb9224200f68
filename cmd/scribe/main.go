package main

import (
	"github.com/Prateekiiitg56/SmartScribe/internal/cli"
)

func main() {
	cli.Execute()
}
