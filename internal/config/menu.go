package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/speedwagon-io/machinedash/internal/model"
)

// MenuConfig is the sidebar table shared by the web and terminal
// dashboards: which machines and views are offered, in which order, under
// which label.
type MenuConfig struct {
	Title    string     `yaml:"title" env-default:"Menu"`
	Machines []MenuItem `yaml:"machines"`
	Views    []MenuItem `yaml:"views"`
}

type MenuItem struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
}

func DefaultMenu() *MenuConfig {
	return &MenuConfig{
		Title: "Menu",
		Machines: []MenuItem{
			{ID: string(model.Machine1), Label: "Machine 1"},
			{ID: string(model.Machine2), Label: "Machine 2"},
			{ID: string(model.Machine3), Label: "Machine 3"},
			{ID: string(model.Machine4), Label: "Machine 4"},
			{ID: string(model.Machine5), Label: "Machine 5"},
		},
		Views: []MenuItem{
			{ID: string(model.ViewIdleState), Label: "Idle State", Icon: "⧗"},
			{ID: string(model.ViewUnderLoad), Label: "Load State", Icon: "✔"},
			{ID: string(model.ViewMachineOff), Label: "Machine OFF", Icon: "⏻"},
			{ID: string(model.ViewDowntimeAnalysis), Label: "Downtime Analysis", Icon: "⏱"},
			{ID: string(model.ViewEfficiency), Label: "Efficiency", Icon: "％"},
			{ID: string(model.ViewMachineStatus), Label: "Machine Status", Icon: "⚙"},
		},
	}
}

// LoadMenu reads the menu table from path, or returns the default one when
// path is empty.
func LoadMenu(path string) (*MenuConfig, error) {
	if path == "" {
		return DefaultMenu(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("menu config file not found: %s", path)
	}

	var menu MenuConfig
	if err := cleanenv.ReadConfig(path, &menu); err != nil {
		return nil, fmt.Errorf("failed to read menu config: %w", err)
	}

	if err := menu.Validate(); err != nil {
		return nil, err
	}

	return &menu, nil
}

func MustLoadMenu(path string) *MenuConfig {
	menu, err := LoadMenu(path)
	if err != nil {
		panic(err.Error())
	}
	return menu
}

// Validate rejects ids outside the machine and view enumerations, so a
// typo in the table fails at start-up instead of rendering an empty view.
func (m *MenuConfig) Validate() error {
	if len(m.Machines) == 0 && len(m.Views) == 0 {
		return fmt.Errorf("menu config has no entries")
	}

	seen := make(map[string]bool)
	for _, item := range m.Machines {
		if !model.Machine(item.ID).Known() {
			return fmt.Errorf("unknown machine in menu: %q", item.ID)
		}
		if seen["m:"+item.ID] {
			return fmt.Errorf("duplicate machine in menu: %q", item.ID)
		}
		seen["m:"+item.ID] = true
	}
	for _, item := range m.Views {
		if !model.View(item.ID).Known() {
			return fmt.Errorf("unknown view in menu: %q", item.ID)
		}
		if seen["v:"+item.ID] {
			return fmt.Errorf("duplicate view in menu: %q", item.ID)
		}
		seen["v:"+item.ID] = true
	}
	return nil
}

func (i MenuItem) DisplayLabel() string {
	if i.Label != "" {
		return i.Label
	}
	return i.ID
}
