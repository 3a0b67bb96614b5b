package core

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/oqtopus-team/grover-lab/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

type Setting struct {
	ComponentSetting map[string]interface{} `toml:"com,omitempty"`
}

func ResetSetting() {
	globalSetting = newSetting()
}

func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.registerSetting(settingName, settingVal)
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("Setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

// DecodeComponentSetting fills a copy of defaults with the keys found under
// [com.<name>]. Keys missing from the file keep their default value.
func DecodeComponentSetting[T any](name string, defaults T) (T, error) {
	s, ok := GetComponentSetting(name)
	if !ok {
		zap.L().Debug(fmt.Sprintf("%s setting is not found. Use defaults", name))
		return defaults, nil
	}
	mapped, ok := s.(map[string]interface{})
	if !ok {
		// still the registered default value
		return defaults, nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(mapped); err != nil {
		return defaults, fmt.Errorf("failed to re-encode %s setting. Reason:%s", name, err)
	}
	out := defaults
	if _, err := toml.Decode(buf.String(), &out); err != nil {
		return defaults, fmt.Errorf("failed to decode %s setting. Reason:%s", name, err)
	}
	return out, nil
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]interface{}),
	}
}

func (s *Setting) registerSetting(settingName string, settingVal interface{}) {
	s.ComponentSetting[settingName] = settingVal
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("Setting is %v", s.ComponentSetting))
	return nil
}
