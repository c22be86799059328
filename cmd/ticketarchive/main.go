package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/velorie/ticketarchive/internal/interfaces/cli/migrate"
	"github.com/velorie/ticketarchive/internal/interfaces/cli/secret"
	"github.com/velorie/ticketarchive/internal/interfaces/cli/server"
	"github.com/velorie/ticketarchive/internal/interfaces/cli/transcript"
	"github.com/velorie/ticketarchive/internal/shared/version"
)

//	@title			Ticket Archive API
//	@version		1.0
//	@description	Stores support-ticket transcripts submitted by the bot and serves them as HTML pages.
//	@BasePath		/

//	@securityDefinitions.apikey	ApiSecret
//	@in							header
//	@name						Authorization
//	@description				Shared bot secret, bare or as "Bearer <secret>".

func main() {
	rootCmd := &cobra.Command{
		Use:     "ticketarchive",
		Short:   "Ticket Archive - support transcript storage and viewer",
		Long:    `Ticket Archive receives closed support-ticket transcripts from a chat bot, stores them and serves each one as a standalone HTML page.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		transcript.NewCommand(),
		secret.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
