package main

import "github.com/denis-hade/hade-avatar-server/internal/cmd"

func main() {
	cmd.Execute()
}
