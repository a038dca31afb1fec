package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	*ServerParam
}

func NewServerConfig(configDir string, debugMode bool, simulationMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
	}

	// Check configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.Mkdir(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	rawConfig, err := ioutil.ReadFile(serverConfig.GetCompleteParamFilename())
	if err == nil {
		// Interpret param file
		serverConfig.ServerParam = &ServerParam{}
		err = yaml.Unmarshal(rawConfig, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}
	} else {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam = &ServerParam{}

		err = yaml.Unmarshal(ParamDefaultFile, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}

		serverConfig.SaveParam()
	}

	return serverConfig
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = ioutil.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}

// FrameInterval returns the rendering period.
func (sc *ServerConfig) FrameInterval() time.Duration {
	return time.Duration(sc.FrameIntervalUs) * time.Microsecond
}

// DriverOptions wraps one driver's option map so drivers can read their
// settings without knowing where they come from.
type DriverOptions struct {
	name    string
	options map[string]string
}

// OptionsFor returns the option accessor for a configured driver, keyed by
// driver name. An unknown name yields an empty accessor.
func (sc *ServerConfig) OptionsFor(name string) *DriverOptions {
	for _, dp := range sc.Drivers {
		if dp.Name == name {
			return &DriverOptions{name: name, options: dp.Options}
		}
	}
	return &DriverOptions{name: name}
}

func (do *DriverOptions) GetString(key string, def string) string {
	if v, ok := do.options[key]; ok {
		return v
	}
	return def
}

func (do *DriverOptions) GetInt(key string, def int) int {
	v, ok := do.options[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("Driver %s: option %s: %q is not a number, using %d", do.name, key, v, def)
		return def
	}
	return n
}

func (do *DriverOptions) GetBool(key string, def bool) bool {
	v, ok := do.options[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("Driver %s: option %s: %q is not a boolean, using %v", do.name, key, v, def)
		return def
	}
	return b
}
