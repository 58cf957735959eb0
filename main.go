package main

import "api-batch-runner/internal/cli"

func main() {
	cli.Execute()
}
