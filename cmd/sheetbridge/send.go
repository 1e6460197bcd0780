package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ideamans/go-sheetbridge/bridge"
)

func newSendCommand(a *app) *cobra.Command {
	var url, action, args, file string

	cmd := &cobra.Command{
		Use:   "enviar",
		Short: "Send a command or a batch file to a running bridge",
		Long: `enviar posts to the /puente endpoint of a running bridge.

Either --accion (with optional --hoja and --args) sends a single command,
or --archivo sends a whole {"comandos": [...]} batch read from a file.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var request bridge.Request

			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read batch file: %w", err)
				}
				if err := json.Unmarshal(data, &request); err != nil {
					return fmt.Errorf("failed to parse batch file: %w", err)
				}
			case action != "":
				command := bridge.Command{Action: bridge.Action(action), Sheet: a.sheet}
				if args != "" {
					if !json.Valid([]byte(args)) {
						return fmt.Errorf("--args must be valid JSON")
					}
					command.Args = json.RawMessage(args)
				}
				request.Commands = []bridge.Command{command}
			default:
				return fmt.Errorf("either --accion or --archivo is required")
			}

			response, err := bridge.NewRemote(url, nil).Send(cmd.Context(), request)
			if err != nil {
				a.log.WithError(err).Error("batch failed")
				return nil
			}

			return printJSON(a.out, response)
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:3000", "Base URL of the bridge")
	cmd.Flags().StringVar(&action, "accion", "", "Action to run")
	cmd.Flags().StringVar(&args, "args", "", "Args of the action as JSON")
	cmd.Flags().StringVar(&file, "archivo", "", "JSON file with a whole batch")

	return cmd
}
