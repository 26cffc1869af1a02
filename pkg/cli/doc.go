/*
Package cli provides command-line interface utilities for the ruler command.

The cli package includes output formatters, error types, and signal helpers
shared by the ruler subcommands.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
