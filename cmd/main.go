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
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spendtrail/spendtrail"
	"github.com/spendtrail/spendtrail/admission"
	"github.com/spendtrail/spendtrail/config"
	"github.com/spendtrail/spendtrail/database"
	"github.com/spendtrail/spendtrail/internal/notification"
	redis_db "github.com/spendtrail/spendtrail/internal/redis-db"
)

// Spendtrail represents the CLI application, encapsulating the root Cobra command.
type Spendtrail struct {
	cmd *cobra.Command
}

// spendtrailInstance holds the service, the admission gate and the active
// configuration so subcommands share one initialized stack.
type spendtrailInstance struct {
	spendtrail *spendtrail.Spendtrail
	gate       *admission.Gate
	cnf        *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service stack before
// any command runs.
func preRun(app *spendtrailInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			logrus.Debug("no .env file found")
		}

		err := config.InitConfig("spendtrail.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, gate, err := setupSpendtrail(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.spendtrail = service
		app.gate = gate
		app.cnf = cnf

		return nil
	}
}

// setupSpendtrail wires the datasource, the service and the Redis-backed
// admission gate from the loaded configuration.
func setupSpendtrail(cfg *config.Configuration) (*spendtrail.Spendtrail, *admission.Gate, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := spendtrail.NewSpendtrail(db)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating spendtrail: %v", err)
	}

	gate, err := setupGate(cfg)
	if err != nil {
		return nil, nil, err
	}

	return service, gate, nil
}

func setupGate(cfg *config.Configuration) (*admission.Gate, error) {
	if cfg.Admission.Disabled {
		return nil, nil
	}

	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", cfg.Redis.Dns)})
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %v", err)
	}

	provider, err := admission.NewRedisProvider(redisClient.Client(), cfg.Admission)
	if err != nil {
		return nil, fmt.Errorf("error building admission provider: %v", err)
	}

	return admission.NewGate(provider, cfg.Admission), nil
}

// NewCLI creates the command-line interface for the Spendtrail application.
func NewCLI() *Spendtrail {
	var configFile string
	s := &spendtrailInstance{}

	var rootCmd = &cobra.Command{
		Use:   "spendtrail",
		Short: "Transaction ledger with admission control",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./spendtrail.json", "Configuration file for spendtrail")

	rootCmd.PersistentPreRunE = preRun(s)

	rootCmd.AddCommand(serverCommands(s))
	rootCmd.AddCommand(userCommands(s))

	return &Spendtrail{cmd: rootCmd}
}

func (w Spendtrail) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
