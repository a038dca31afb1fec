package event

import (
	"github.com/tlegoff/charlcd/apimodel"
)

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

// ApiEventStatusData asks the main loop for a status snapshot. The loop
// fills Status before answering on Result.
type ApiEventStatusData struct {
	Status *apimodel.ServerStatus
}

type ApiEventServerMsgData struct {
	Text   string
	Frames int
}

type ApiEventOutputData struct {
	State int
}

type ApiEventBacklightData struct {
	State string
}
