package main

import (
	"github.com/pwmfan/pwmfan/cmd"
)

func main() {
	cmd.Execute()
}
