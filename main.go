package main

import (
	"github.com/minhtn89/jshound/cmd"
)

var execCmd = cmd.Execute

func main() {
	execCmd()
}
