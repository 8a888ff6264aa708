package models

// LauncherConfigKey is the config row holding the LauncherConfig document.
const LauncherConfigKey = "configClient"

// LauncherConfig is the launcher's persisted client configuration.
// Only AccountSelected is interpreted by the reconciler; the rest is
// round-tripped untouched.
type LauncherConfig struct {
	AccountSelected *string       `json:"account_selected"`
	InstanceSelect  *string       `json:"instance_select"`
	JavaConfig      JavaConfig    `json:"java_config"`
	GameConfig      GameConfig    `json:"game_config"`
	Launcher        LauncherPrefs `json:"launcher_config"`
}

type JavaConfig struct {
	JavaPath   *string    `json:"java_path"`
	JavaMemory JavaMemory `json:"java_memory"`
}

// JavaMemory bounds are in gigabytes.
type JavaMemory struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type GameConfig struct {
	ScreenSize ScreenSize `json:"screen_size"`
}

type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type LauncherPrefs struct {
	DownloadMulti   int    `json:"download_multi"`
	Theme           string `json:"theme"`
	CloseLauncher   string `json:"closeLauncher"`
	IntelEnabledMac bool   `json:"intelEnabledMac"`
}

// DefaultLauncherConfig returns the configuration written on first run.
func DefaultLauncherConfig() *LauncherConfig {
	return &LauncherConfig{
		JavaConfig: JavaConfig{
			JavaMemory: JavaMemory{Min: 2, Max: 4},
		},
		GameConfig: GameConfig{
			ScreenSize: ScreenSize{Width: 854, Height: 480},
		},
		Launcher: LauncherPrefs{
			DownloadMulti:   5,
			Theme:           "auto",
			CloseLauncher:   "close-launcher",
			IntelEnabledMac: true,
		},
	}
}

// Selected returns the selected account id, or "" when none is selected.
func (c *LauncherConfig) Selected() string {
	if c == nil || c.AccountSelected == nil {
		return ""
	}
	return *c.AccountSelected
}

// Select points the selection at id; an empty id clears it.
func (c *LauncherConfig) Select(id string) {
	if id == "" {
		c.AccountSelected = nil
		return
	}
	c.AccountSelected = &id
}
