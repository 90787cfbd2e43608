package network

const (
	NoConnectionsAvailable = "[error] no connections available"
	ShuttingDown           = "[error] server is shutting down"
	CannotParseQuery       = "[error] cannot parse query"
	UnknownCommand         = "[error] unknown command: %v"
	SuccessCommand         = "[success]"
	GetResult              = "[success] %v"
	StatusResult           = "[success] keys: %v, free slots: %v of %v"
)
