package main

import (
	"github.com/mcoot/fivesgame-go/internal/cli"
)

func main() {
	cli.Execute()
}
