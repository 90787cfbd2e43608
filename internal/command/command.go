package command

type CommandId int8

type CommandSettings struct {
	id       CommandId
	argCount int
}

type Query struct {
	CommandId CommandId
	Args      []string
}

const (
	SetCommandToken    = "SET"
	GetCommandToken    = "GET"
	DelCommandToken    = "DEL"
	StatusCommandToken = "STATUS"

	SetCommandId    = CommandId(1)
	GetCommandId    = CommandId(2)
	DelCommandId    = CommandId(3)
	StatusCommandId = CommandId(4)
)

var commandSettings = map[string]CommandSettings{
	SetCommandToken:    {id: SetCommandId, argCount: 2},
	GetCommandToken:    {id: GetCommandId, argCount: 1},
	DelCommandToken:    {id: DelCommandId, argCount: 1},
	StatusCommandToken: {id: StatusCommandId, argCount: 0},
}
