/*
Copyright 2018 Craig Johnston <cjimti@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/txn2/termchat/cmd/termchat/chat"
	"github.com/txn2/termchat/cmd/termchat/config"
	"github.com/txn2/termchat/cmd/termchat/mcp"
	"github.com/txn2/termchat/cmd/termchat/serve"
)

var globalUsage = `termchat is a minimal shared chat log for the terminal.

Run 'termchat serve' somewhere reachable, then 'termchat chat' to join.`

var Version = "0.0.0"

func newRootCmd() *cobra.Command {
	chat.Version = Version
	serve.Version = Version
	mcp.Version = Version

	cmd := &cobra.Command{
		Use:          "termchat",
		Short:        "Terminal chat client and server.",
		Long:         globalUsage,
		SilenceUsage: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of termchat",
		Long:  ``,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "termchat version: %s\nhttps://github.com/txn2/termchat\n", Version)
		},
	}

	cmd.AddCommand(versionCmd, chat.Cmd, serve.Cmd, mcp.Cmd, config.Cmd)

	return cmd
}

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
