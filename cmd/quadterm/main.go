package main

import (
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	signals, stop := notifySignals()
	defer stop()
	return runWithEnv(args, out, errOut, defaultEnvironment(signals))
}
