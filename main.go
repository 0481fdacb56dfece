package main

import "github.com/wxbackup/wechat-export/cmd"

func main() {
	cmd.Execute()
}
