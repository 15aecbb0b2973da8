package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"combatsim/internal/combat"
)

// ErrInvalidScenario is wrapped by every scenario shape error.
var ErrInvalidScenario = errors.New("invalid scenario")

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadScenario reads a scenario file. Fields the file leaves out keep the
// engine defaults.
func LoadScenario(path string) (*Scenario, error) {
	sc := newScenario()
	if err := loadYAML(path, sc); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := sc.check(); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes a scenario from YAML bytes.
func ParseScenario(b []byte) (*Scenario, error) {
	sc := newScenario()
	if err := yaml.Unmarshal(b, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.check(); err != nil {
		return nil, err
	}
	return sc, nil
}

func newScenario() *Scenario {
	return &Scenario{
		Mode:   combat.ModeDuel,
		Runs:   1000,
		Battle: combat.TeamBattleConfig{BattleConfig: combat.DefaultBattleConfig()},
	}
}
