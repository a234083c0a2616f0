package main

import "github.com/lukman83/giftlist-preview/cmd"

func main() {
	cmd.Execute()
}
