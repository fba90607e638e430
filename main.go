// Package main is the entry point of the vlive command.
package main

import (
	"github.com/samber/lo"
	"github.com/vlive-go/vlive/cmd"
	"github.com/vlive-go/vlive/config"
	"github.com/vlive-go/vlive/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
