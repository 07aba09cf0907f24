package config

type MapsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	GoogleAPIKey string `yaml:"google_api_key"`
}

func loadMapsConfig() *MapsConfig {
	key := getEnv("GOOGLE_MAPS_API_KEY", "")
	return &MapsConfig{
		Enabled:      key != "",
		GoogleAPIKey: key,
	}
}
