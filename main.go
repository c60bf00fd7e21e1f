package main

import (
	"os"

	"github.com/Taichi-iskw/yt-summary/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
