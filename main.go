package main

import (
	"github.com/galeries/galeries-server/cmd"
)

func main() {
	cmd.Execute()
}
