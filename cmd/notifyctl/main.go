// notifyctl — утилита командной строки для HTTP-оболочки notifyd.
//
// Использование:
//
//	notifyctl [--server URL] [--json] <command>
//
// Команды:
//
//	trigger   Запустить цикл уведомлений
//	health    Проверить /health
//	status    Состояние primary/backup
//	slot      Текущий слот и следующий цикл
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Notifyd/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var serverURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "notifyctl",
		Short:         "notifyctl — control a notifyd server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "notifyd server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(serverURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewTriggerCmd(clientFn, outputFn),
		cli.NewHealthCmd(clientFn, outputFn),
		cli.NewStatusCmd(clientFn, outputFn),
		cli.NewSlotCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		cli.NewOutput(false).Error(err.Error())
		os.Exit(1)
	}
}
