package main

import (
	"fmt"
	"os"

	"github.com/rcardoso/feedbase/cmd/cli/auth"
	"github.com/rcardoso/feedbase/cmd/cli/feeds"
	"github.com/rcardoso/feedbase/cmd/cli/root"
	"github.com/rcardoso/feedbase/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	feeds.InitFeeds(rootCmd)
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
