package srv

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/api"
	"github.com/tlegoff/charlcd/internal/srv/command"
	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/input"
	"github.com/tlegoff/charlcd/internal/srv/menu"
	"github.com/tlegoff/charlcd/internal/srv/render"
	"github.com/tlegoff/charlcd/internal/srv/screenlist"
	"github.com/tlegoff/charlcd/internal/srv/serverscreen"
	"github.com/tlegoff/charlcd/internal/srv/session"
	"github.com/tlegoff/charlcd/internal/srv/sock"
	"github.com/tlegoff/charlcd/internal/version"
)

type ServerApp struct {
	*config.ServerConfig

	drivers      *driver.Set
	clients      *session.List
	screens      *screenlist.List
	renderState  *render.State
	inputRouter  *input.Router
	menus        *menu.Menus
	serverScreen *serverscreen.ServerScreen
	dispatcher   *command.Context
	sockServer   *sock.Server
	apiDevice    *api.Api

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of charlcd server %s ...", version.AppVersion.String())

	app := &ServerApp{
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
		ServerConfig:     config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	// Load display drivers. Simulation mode ignores the configured list
	// and drives the debug display only.
	driverParams := app.ServerParam.Drivers
	if app.SimulationMode {
		driverParams = []*config.DriverParam{{Name: "debug"}}
	}
	app.drivers = &driver.Set{}
	for _, dp := range driverParams {
		_, err := app.drivers.Load(driver.LoadRequest{
			Name:         dp.Name,
			ModulePath:   dp.Module,
			SymbolPrefix: dp.SymbolPrefix,
			Options:      app.ServerConfig.OptionsFor(dp.Name),
		})
		if err != nil {
			logrus.Fatalf("Unable to load driver %s: %v\n", dp.Name, err)
		}
	}
	if app.drivers.Count() == 0 {
		logrus.Fatalf("No driver loaded, giving up\n")
	}
	props := app.drivers.Props()

	app.clients = &session.List{}
	app.screens = &screenlist.List{AutoRotate: app.ServerParam.AutoRotate}

	app.renderState = render.NewState(app.drivers)
	app.renderState.Backlight = parseBacklightParam(app.ServerParam.Backlight)
	app.renderState.Heartbeat = parseHeartbeatParam(app.ServerParam.Heartbeat)

	mode, ok := serverscreen.ParseMode(app.ServerParam.ServerScreen)
	if !ok {
		logrus.Warnf("Unknown server_screen mode %q, using off", app.ServerParam.ServerScreen)
	}
	app.serverScreen = serverscreen.New(mode, app.clients, props, session.DefaultDuration)
	app.screens.Add(app.serverScreen.Screen())

	app.menus = menu.New(app.ServerParam.Menu, props)
	app.screens.Add(app.menus.Screen())

	app.inputRouter = &input.Router{
		Screens: app.screens,
		Keys:    app.ServerParam.Keys,
		Menu:    app.menus,
		ServerMsg: func(text string, frames int) {
			if err := app.renderState.ServerMsg(text, frames); err != nil {
				logrus.Warnf("Server message: %v", err)
			}
		},
	}

	// The screen list drops expired screens itself; their owners must
	// forget them too.
	app.screens.OnExpire = func(s *session.Screen) {
		if s.Client != nil {
			s.Client.RemoveScreen(s)
		}
		app.screens.Remove(s)
	}

	app.dispatcher = &command.Context{
		Drivers:       app.drivers,
		Clients:       app.clients,
		Screens:       app.screens,
		Input:         app.inputRouter,
		Render:        app.renderState,
		Menus:         app.menus,
		DestroyClient: app.destroyClient,
	}

	app.apiDevice = api.NewApi(app.ServerConfig)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting charlcd server ...")

	sockServer, err := sock.NewServer(
		s.ServerParam.BindAddress, int(s.ServerParam.Port), s.clients)
	if err != nil {
		logrus.Fatalf("Unable to open client socket: %v\n", err)
	}
	s.sockServer = sockServer
	s.sockServer.OnDestroy = s.releaseClient

	// Start event loop
	go s.eventLoop()

	// Start api device
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Start()
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping charlcd server ...")

	// Stop api
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	if err := s.sockServer.Close(); err != nil {
		logrus.Warnf("Closing client socket: %v", err)
	}

	serverscreen.Goodbye(s.drivers)
	time.Sleep(500 * time.Millisecond)
	s.drivers.UnloadAll()

	logrus.Printf("Server stopped")
}

// destroyClient tears a gone client's connection down. The socket layer's
// OnDestroy hook releases everything the client held, so both teardown
// paths clean up the same way.
func (s *ServerApp) destroyClient(c *session.Client) {
	s.sockServer.DestroyClient(c)
}

func (s *ServerApp) releaseClient(c *session.Client) {
	s.inputRouter.ReleaseClientKeys(c)
	s.menus.DropClientMenu(c)
	for _, scr := range c.Screens() {
		s.screens.Remove(scr)
	}
}

func parseBacklightParam(v string) int {
	switch v {
	case "on":
		return session.BacklightOn
	case "off":
		return session.BacklightOff
	case "open", "":
		return session.BacklightOpen
	}
	logrus.Warnf("Unknown backlight setting %q, using open", v)
	return session.BacklightOpen
}

func parseHeartbeatParam(v string) int {
	switch v {
	case "on":
		return session.HeartbeatOn
	case "off":
		return session.HeartbeatOff
	case "open", "":
		return session.HeartbeatOpen
	}
	logrus.Warnf("Unknown heartbeat setting %q, using open", v)
	return session.HeartbeatOpen
}
