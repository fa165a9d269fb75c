package main

import "github.com/theirongolddev/fundburn/cmd"

func main() {
	cmd.Execute()
}
