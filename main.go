package main

import "github.com/kandttextiles/ktportal/cmd"

func main() {
	cmd.Execute()
}
