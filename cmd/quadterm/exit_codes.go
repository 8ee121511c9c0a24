package main

const (
	exitOK          = 0
	exitUsage       = 1
	exitConfig      = 2
	exitMissingTool = 3
	exitLaunch      = 4
	exitInterrupted = 130
)
