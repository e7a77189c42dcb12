package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Retrieve RetrieveCmd `cmd:"" help:"Retrieve a fresh activity statement from the IBKR Flex web service."`
	Convert  ConvertCmd  `cmd:"" help:"Convert a Flex activity statement to hledger postings."`
}
