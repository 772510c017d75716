package modelwebsocket

import "errors"

type Action string

const (
	RequestPlayers Action = "requestPlayers"
)

var ClientActions = []Action{
	RequestPlayers,
}

const (
	UpdatePlayers Action = "updatePlayers"
)

var ServerActions = []Action{
	UpdatePlayers,
}

func ActionFromString(a string) (Action, error) {
	switch a {
	case string(RequestPlayers):
		return RequestPlayers, nil
	case string(UpdatePlayers):
		return UpdatePlayers, nil
	}
	return "", errors.New("unsuported action name")
}

func (s Action) String() string {
	switch s {
	case RequestPlayers:
		return string(RequestPlayers)
	case UpdatePlayers:
		return string(UpdatePlayers)
	}
	return "unknown"
}

type Message struct {
	Action  Action `json:"action"`
	Content string `json:"content,omitempty"`
}
