package apimodel

// ServerStatus is the snapshot answered on /api/status.
type ServerStatus struct {
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`

	Width      int `json:"width"`
	Height     int `json:"height"`
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`

	ClientCount int `json:"client_count"`
	ScreenCount int `json:"screen_count"`

	// StallCount counts oversized protocol lines the socket layer had to
	// drop since startup.
	StallCount int `json:"stall_count"`

	Clients []ClientStatus `json:"clients"`
}

// ClientStatus describes one connected client.
type ClientStatus struct {
	Id      int      `json:"id"`
	Name    string   `json:"name"`
	Screens []string `json:"screens"`
}
