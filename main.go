package main

import "github.com/cmmoran/rdcgen/cmd"

func main() {
	cmd.Execute()
}
