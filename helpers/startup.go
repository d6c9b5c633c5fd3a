package helpers

import (
	"os"

	"github.com/miniclay/miniclay-server/pkg/config"
	"gopkg.in/yaml.v3"
)

// ReadYamlConfigFile reads the startup configuration from a yaml file.
func ReadYamlConfigFile(filename string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, appCnf)
	if err != nil {
		return nil, err
	}

	// set the root path
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}
