/*
Copyright 2025 Spendtrail Authors.

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
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/spendtrail/spendtrail/model"
)

// userCommands returns commands for managing ledger users from the CLI.
func userCommands(s *spendtrailInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "manage ledger users",
	}

	var id string
	var balance int64

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "create a ledger user",
		Run: func(cmd *cobra.Command, args []string) {
			usr, err := s.spendtrail.CreateUser(context.Background(), model.User{
				UserID:  id,
				Balance: balance,
			})
			if err != nil {
				log.Fatalf("error creating user: %v", err)
			}
			log.Printf("created user %s with balance %d", usr.UserID, usr.Balance)
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "user ID (generated when empty)")
	createCmd.Flags().Int64Var(&balance, "balance", 0, "starting balance")

	cmd.AddCommand(createCmd)
	return cmd
}
