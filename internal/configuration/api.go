package configuration

type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	// WebRoot is a directory of static files served next to the api, disabled if empty
	WebRoot string `json:"webRoot"`
}
