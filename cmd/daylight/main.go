package main

import "github.com/mdjska/daylight-analysis/internal/cli"

func main() {
	cli.Execute()
}
