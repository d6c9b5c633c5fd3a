package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadYamlConfigFile(t *testing.T) {
	appCnf, err := ReadYamlConfigFile("../config_sample.yaml")
	assert.NoError(t, err)
	assert.NotNil(t, appCnf)

	assert.Equal(t, 8080, appCnf.Client.Port)
	assert.Equal(t, "openrouter", appCnf.LlmSettings.Provider)
	assert.Equal(t, "elevenlabs", appCnf.TtsSettings.Provider)
	assert.NotEmpty(t, appCnf.RootWorkingDir)
}

func TestReadYamlConfigFile_MissingFile(t *testing.T) {
	_, err := ReadYamlConfigFile("does-not-exist.yaml")
	assert.Error(t, err)
}
