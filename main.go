package main

import "github.com/yuvraj20122008-del/autofix-my-code/cmd"

func main() {
	cmd.Execute()
}
