package main

import (
	"github.com/hance08/bankd/cmd"
)

func main() {
	cmd.Execute()
}
