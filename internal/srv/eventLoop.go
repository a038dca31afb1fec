package srv

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/apimodel"
	"github.com/tlegoff/charlcd/internal/srv/event"
	"github.com/tlegoff/charlcd/internal/version"
)

func (s *ServerApp) eventLoop() {
	ticker := time.NewTicker(s.ServerConfig.FrameInterval())
	defer ticker.Stop()

	// The api device exists even when its listener is disabled; its event
	// channel then simply never fires.
	apiEvents := s.apiDevice.EventChannel()

	timer := 0
	for loop := true; loop; {
		select {
		case ev := <-apiEvents:
			ev.Result <- s.handleApiEvent(ev.Data)
		case <-ticker.C:
			s.frame(timer)
			timer++
		case <-s.eventLoopAskDone:
			logrus.Debugf("Stopping event loop")
			loop = false
		}
	}
	s.eventLoopDone <- true
}

// frame runs one server tick: network in, protocol, input, rotation and one
// rendered frame out.
func (s *ServerApp) frame(timer int) {
	s.sockServer.PollOnce()
	s.dispatcher.ParseAll()

	for {
		key := s.drivers.GetKey()
		if key == "" {
			break
		}
		s.inputRouter.Handle(key)
	}

	s.serverScreen.Update()
	s.screens.Process(timer)
	s.renderState.Screen(s.screens.Current(), timer)
}

func (s *ServerApp) handleApiEvent(data interface{}) error {
	switch data := data.(type) {
	case *event.ApiEventStatusData:
		data.Status = s.statusSnapshot()
		return nil
	case event.ApiEventServerMsgData:
		return s.renderState.ServerMsg(data.Text, data.Frames)
	case event.ApiEventOutputData:
		s.renderState.OutputState = data.State
		return nil
	case event.ApiEventBacklightData:
		switch data.State {
		case "on", "off", "open":
			s.renderState.Backlight = parseBacklightParam(data.State)
			return nil
		}
		return fmt.Errorf("unknown backlight state %q", data.State)
	}
	logrus.Warnf("Unknown api event %T", data)
	return nil
}

func (s *ServerApp) statusSnapshot() *apimodel.ServerStatus {
	props := s.drivers.Props()

	status := &apimodel.ServerStatus{
		Version:         version.AppVersion.String(),
		ProtocolVersion: version.ProtocolVersion,
		Width:           props.Width,
		Height:          props.Height,
		CellWidth:       props.CellWidth,
		CellHeight:      props.CellHeight,
		ClientCount:     s.clients.Len(),
		StallCount:      s.sockServer.StallCount(),
		Clients:         []apimodel.ClientStatus{},
	}

	for _, c := range s.clients.All() {
		cs := apimodel.ClientStatus{Id: c.ID, Name: c.Name, Screens: []string{}}
		for _, scr := range c.Screens() {
			cs.Screens = append(cs.Screens, scr.ID)
			status.ScreenCount++
		}
		status.Clients = append(status.Clients, cs)
	}

	return status
}
