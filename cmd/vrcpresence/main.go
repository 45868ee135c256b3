package main

import (
	"github.com/livp123/vrcpresence/cmd/vrcpresence/commands"
)

func main() {
	commands.Execute()
}
