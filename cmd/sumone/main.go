// cmd/sumone/main.go
package main

import (
	"sumone/internal/appshell"
	"sumone/internal/solveapp"
)

func main() { appshell.Main(solveapp.RunContext) }
